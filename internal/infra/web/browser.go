package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// BrowserFetcher renders pages in headless Chrome so client-side components are
// present in the returned markup. The browser is launched lazily on first use.
type BrowserFetcher struct {
	timeout   time.Duration
	remoteURL string
	logger    *zap.Logger

	// launch starts a local Chrome and returns its DevTools URL plus a kill func
	launch func() (string, func(), error)

	mu      sync.Mutex
	browser *rod.Browser
	kill    func()
}

// NewBrowserFetcher creates a fetcher; remoteURL, when set, connects to an existing
// DevTools endpoint instead of launching a local Chrome.
func NewBrowserFetcher(timeout time.Duration, remoteURL string, logger *zap.Logger) *BrowserFetcher {
	return &BrowserFetcher{timeout: timeout, remoteURL: remoteURL, logger: logger, launch: launchHeadless}
}

func launchHeadless() (string, func(), error) {
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return "", nil, err
	}
	return u, l.Kill, nil
}

func (f *BrowserFetcher) connect() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser != nil {
		return f.browser, nil
	}

	wsURL := f.remoteURL
	kill := func() {}
	if wsURL == "" {
		u, k, err := f.launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL, kill = u, k
		f.logger.Info("browser launched", zap.String("url", wsURL))
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		// Chrome yang baru di-launch harus dimatikan, jangan sampai bocor
		kill()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	f.browser = b
	f.kill = kill
	return b, nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	b, err := f.connect()
	if err != nil {
		return nil, err
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	p := page.Context(navCtx)
	if err := p.Navigate(url); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		f.logger.Warn("browser: wait load", zap.String("url", url), zap.Error(err))
	}
	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("browser: read DOM: %w", err)
	}
	return []byte(html), nil
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.kill != nil {
		f.kill()
		f.kill = nil
	}
	return err
}
