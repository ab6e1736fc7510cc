package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bryanwahyu/aem-assistant/internal/application/ingest"
	"github.com/bryanwahyu/aem-assistant/internal/config"
	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/infra/web"
)

func TestNewLLM_RequiresCredentials(t *testing.T) {
	for _, p := range []string{config.ProviderAzure, config.ProviderOpenAI, config.ProviderGroq, config.ProviderGemini} {
		t.Run(p, func(t *testing.T) {
			cfg := config.Default()
			cfg.LLM.Provider = p
			_, _, err := NewLLM(context.Background(), cfg)
			assert.ErrorIs(t, err, ai.ErrNotConfigured)
		})
	}
}

func TestNewLLM_GroqHasNoEmbedder(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = config.ProviderGroq
	cfg.LLM.Groq.APIKey = "gsk-test"

	llm, emb, err := NewLLM(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, llm)
	assert.Nil(t, emb)
}

func TestNewFetcher_Renderer(t *testing.T) {
	cfg := config.Default()
	logger := zaptest.NewLogger(t)
	assert.IsType(t, &web.HTTPFetcher{}, NewFetcher(cfg, logger))

	cfg.Inspector.Renderer = "browser"
	assert.IsType(t, &web.BrowserFetcher{}, NewFetcher(cfg, logger))
}

func TestOpenIndex_UnknownDriver(t *testing.T) {
	_, _, err := OpenIndex(context.Background(), "oracle", "x")
	assert.Error(t, err)
}

func TestNew_LocalWithSQLiteIndex(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = config.ProviderLocal
	cfg.Index.Driver = "sqlite"
	cfg.Index.DSN = ":memory:"

	ctx := context.Background()
	app, err := New(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	require.NotNil(t, app.Index)
	assert.Contains(t, app.HealthChecks, "index")
	assert.NotContains(t, app.HealthChecks, "minio")

	doc := "Template Editor lets authors lock structure. " + strings.Repeat("Dispatcher caches pages. ", 80)
	res, err := app.Ingest.Ingest(ctx, ingest.Upload{Filename: "notes.txt", ContentType: "text/plain", Data: []byte(doc)})
	require.NoError(t, err)
	assert.True(t, res.Indexed)
	assert.Greater(t, res.Chunks, 1)

	ans, err := app.RAG.Ask(ctx, "template editor")
	require.NoError(t, err)
	require.NotEmpty(t, ans.Context)
	assert.Equal(t, "notes.txt", ans.Context[0].Source)
	assert.Contains(t, ans.Context[0].PageContent, "Template Editor")
}

func TestNew_WithoutIndexUsesStaticKnowledge(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = config.ProviderLocal

	app, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Index)
	assert.Empty(t, app.HealthChecks)

	ans, err := app.RAG.Ask(context.Background(), "what are components?")
	require.NoError(t, err)
	assert.Len(t, ans.Context, 3)
}
