package inspect

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	domaem "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
	domain "github.com/bryanwahyu/aem-assistant/internal/domain/inspect"
	"github.com/bryanwahyu/aem-assistant/internal/metrics"
)

const (
	markerAttr = "data-component"
	propsAttr  = "data-props"
)

// Service probes live pages for component markers.
// Per-URL failures are logged and never returned to the caller.
type Service struct {
	Fetcher domain.Fetcher
	Logger  *zap.Logger
}

// FetchComponentProps returns the data-props of the first element marked with selector.
// ok is false when the page has no such element, the element carries no data-props, or
// the page could not be fetched.
func (s *Service) FetchComponentProps(ctx context.Context, url, selector string) (string, bool) {
	doc, err := s.load(ctx, url)
	if err != nil {
		s.Logger.Warn("fetch page failed", zap.String("url", url), zap.String("selector", selector), zap.Error(err))
		metrics.ObserveProbe(metrics.ProbeError)
		return "", false
	}
	raw, found := findProps(doc, selector)
	if !found || raw == "" {
		metrics.ObserveProbe(metrics.ProbeMiss)
		return "", false
	}
	metrics.ObserveProbe(metrics.ProbeHit)
	return raw, true
}

// SearchByComponent probes each URL in order and returns one hit per page whose marker
// carries data-props. Helpers resolve to nil when the payload lacks them or cannot be parsed.
func (s *Service) SearchByComponent(ctx context.Context, selector string, urls []domaem.TrackedURL, helperProps []string) []domain.ComponentHit {
	hits := []domain.ComponentHit{}
	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}
		raw, ok := s.FetchComponentProps(ctx, u.Value, selector)
		if !ok {
			continue
		}
		props := domain.ParseProps(raw)
		if props.Err != nil {
			s.Logger.Warn("unparseable props", zap.String("url", u.Value), zap.String("selector", selector), zap.Error(props.Err))
		}
		hits = append(hits, domain.ComponentHit{
			URL:        u.Value,
			ID:         u.ID,
			RawProps:   raw,
			Helpers:    props.Helpers(helperProps),
			ParseError: props.ParseError(),
		})
	}
	return hits
}

// SearchByPage fetches url once and reports every definition whose marker is present,
// with or without data-props.
func (s *Service) SearchByPage(ctx context.Context, url string, components []domaem.ComponentDefinition) []domain.PageComponent {
	found := []domain.PageComponent{}
	doc, err := s.load(ctx, url)
	if err != nil {
		s.Logger.Warn("analyze page failed", zap.String("url", url), zap.Error(err))
		metrics.ObserveProbe(metrics.ProbeError)
		return found
	}
	for _, c := range components {
		raw, ok := findProps(doc, c.Selector)
		if !ok {
			metrics.ObserveProbe(metrics.ProbeMiss)
			continue
		}
		metrics.ObserveProbe(metrics.ProbeHit)
		props := domain.ParseProps(raw)
		if props.Err != nil {
			s.Logger.Debug("unparseable props", zap.String("url", url), zap.String("selector", c.Selector), zap.Error(props.Err))
		}
		found = append(found, domain.PageComponent{
			Name:       c.Name,
			Selector:   c.Selector,
			RawProps:   raw,
			Helpers:    props.Helpers(c.HelperProps),
			ParseError: props.ParseError(),
		})
	}
	return found
}

func (s *Service) load(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root), nil
}

// findProps compares attribute values directly, so selectors never need CSS escaping.
func findProps(doc *goquery.Document, selector string) (string, bool) {
	el := doc.Find("[" + markerAttr + "]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr(markerAttr)
		return v == selector
	}).First()
	if el.Length() == 0 {
		return "", false
	}
	raw, _ := el.Attr(propsAttr)
	return raw, true
}
