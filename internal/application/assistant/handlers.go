package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domaem "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
	"github.com/bryanwahyu/aem-assistant/internal/domain/inspect"
	"github.com/bryanwahyu/aem-assistant/internal/domain/knowledge"
)

// Inspector is the page scanning used by the search handlers.
type Inspector interface {
	SearchByComponent(ctx context.Context, selector string, urls []domaem.TrackedURL, helperProps []string) []inspect.ComponentHit
	SearchByPage(ctx context.Context, url string, components []domaem.ComponentDefinition) []inspect.PageComponent
}

// Output is what one handler contributes to the state: at most one context entry and
// an optional structured result.
type Output struct {
	Context string
	Results any
}

// Handler runs for one intent.
type Handler interface {
	Handle(ctx context.Context, query string) (Output, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, query string) (Output, error)

func (f HandlerFunc) Handle(ctx context.Context, query string) (Output, error) { return f(ctx, query) }

// ComponentResults is the structured result of a component search.
type ComponentResults struct {
	Component domaem.ComponentDefinition `json:"component"`
	Pages     []inspect.ComponentHit     `json:"pages"`
}

// PageResults is the structured result of a page search.
type PageResults struct {
	URL               string                  `json:"url"`
	ComponentsVisible []inspect.PageComponent `json:"componentsVisible"`
}

// Context messages for the not-found branches.
const (
	MsgComponentNotConfigured = "Component not found in AEM Store configuration."
	MsgURLNotRecognized       = "URL not recognized in store. Please provide a full URL from the tracked list."
)

// AEMHandler exposes the full configuration snapshot.
type AEMHandler struct {
	Store domaem.Reader
}

func (h AEMHandler) Handle(_ context.Context, _ string) (Output, error) {
	snap := h.Store.Snapshot()
	b, err := json.Marshal(snap)
	if err != nil {
		return Output{}, fmt.Errorf("encode store: %w", err)
	}
	return Output{Context: "AEM Store Config: " + string(b), Results: snap}, nil
}

// KnowledgeHandler fetches knowledge-base snippets; it has no structured result.
type KnowledgeHandler struct {
	Retriever knowledge.Retriever
}

func (h KnowledgeHandler) Handle(ctx context.Context, query string) (Output, error) {
	snippets, err := h.Retriever.Retrieve(ctx, query)
	if err != nil {
		return Output{}, fmt.Errorf("retrieve knowledge: %w", err)
	}
	texts := make([]string, 0, len(snippets))
	for _, s := range snippets {
		texts = append(texts, s.PageContent)
	}
	return Output{Context: "RAG Knowledge Base: " + strings.Join(texts, "\n")}, nil
}

// SearchComponentHandler finds where the component named in the query is used.
type SearchComponentHandler struct {
	Store     domaem.Reader
	Inspector Inspector
	Logger    *zap.Logger
}

func (h SearchComponentHandler) Handle(ctx context.Context, query string) (Output, error) {
	comp, ok := h.Store.FindComponent(query)
	if !ok {
		return Output{Context: MsgComponentNotConfigured}, nil
	}
	urls := h.Store.Snapshot().URLs
	h.Logger.Info("searching component", zap.String("selector", comp.Selector), zap.Int("urls", len(urls)))

	hits := h.Inspector.SearchByComponent(ctx, comp.Selector, urls, comp.HelperProps)
	var msg string
	if len(hits) > 0 {
		found := make([]string, len(hits))
		for i, hit := range hits {
			found[i] = hit.URL
		}
		msg = fmt.Sprintf("Found component %s on %d pages: %s", comp.Name, len(hits), strings.Join(found, ", "))
	} else {
		msg = fmt.Sprintf("Search completed: The component %q was NOT found on any of the %d tracked pages.", comp.Name, len(urls))
	}
	return Output{Context: msg, Results: ComponentResults{Component: comp, Pages: hits}}, nil
}

// SearchPageHandler lists the components on the tracked URL named in the query.
type SearchPageHandler struct {
	Store     domaem.Reader
	Inspector Inspector
	Logger    *zap.Logger
}

func (h SearchPageHandler) Handle(ctx context.Context, query string) (Output, error) {
	target, ok := h.Store.FindURLInText(query)
	if !ok {
		return Output{Context: MsgURLNotRecognized}, nil
	}
	comps := h.Store.Snapshot().Components
	h.Logger.Info("analyzing page", zap.String("url", target.Value), zap.Int("components", len(comps)))

	found := h.Inspector.SearchByPage(ctx, target.Value, comps)
	names := make([]string, len(found))
	for i, c := range found {
		names[i] = c.Name
	}
	return Output{
		Context: fmt.Sprintf("The page %s contains these components: %s", target.Value, strings.Join(names, ", ")),
		Results: PageResults{URL: target.Value, ComponentsVisible: found},
	}, nil
}
