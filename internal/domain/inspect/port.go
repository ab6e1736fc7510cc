package inspect

import "context"

// Fetcher loads a page's markup.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
