package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	domain "github.com/bryanwahyu/aem-assistant/internal/domain/knowledge"
)

// maxScan bounds how many stored chunks one query compares against.
const maxScan = 5000

// VectorRetriever embeds the query and ranks stored chunks by cosine similarity.
// When the index holds nothing it falls back to Fallback.
type VectorRetriever struct {
	Repo     domain.Repository
	Embedder ai.Embedder
	TopK     int
	Fallback domain.Retriever
	Logger   *zap.Logger
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]domain.Snippet, error) {
	chunks, err := r.Repo.Chunks(ctx, maxScan)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		r.Logger.Debug("index empty, using fallback snippets")
		if r.Fallback == nil {
			return []domain.Snippet{}, nil
		}
		return r.Fallback.Retrieve(ctx, query)
	}

	vecs, err := r.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vecs))
	}
	q := vecs[0]

	scored := make([]domain.Snippet, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) != len(q) {
			continue
		}
		scored = append(scored, domain.Snippet{
			PageContent: c.Text,
			Source:      c.Source,
			Score:       cosine(q, c.Embedding),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	k := r.TopK
	if k <= 0 {
		k = 4
	}
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
