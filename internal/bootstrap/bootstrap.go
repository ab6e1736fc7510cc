// Package bootstrap turns a loaded config into wired services. It is shared by the API
// server and the aemctl CLI.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/aem-assistant/internal/application"
	appaem "github.com/bryanwahyu/aem-assistant/internal/application/aem"
	"github.com/bryanwahyu/aem-assistant/internal/application/assistant"
	"github.com/bryanwahyu/aem-assistant/internal/application/ingest"
	appinspect "github.com/bryanwahyu/aem-assistant/internal/application/inspect"
	"github.com/bryanwahyu/aem-assistant/internal/application/rag"
	"github.com/bryanwahyu/aem-assistant/internal/config"
	domaem "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	domain "github.com/bryanwahyu/aem-assistant/internal/domain/inspect"
	"github.com/bryanwahyu/aem-assistant/internal/domain/knowledge"
	"github.com/bryanwahyu/aem-assistant/internal/infra/ai/gemini"
	"github.com/bryanwahyu/aem-assistant/internal/infra/ai/local"
	"github.com/bryanwahyu/aem-assistant/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/aem-assistant/internal/infra/db/mysql"
	"github.com/bryanwahyu/aem-assistant/internal/infra/db/postgres"
	"github.com/bryanwahyu/aem-assistant/internal/infra/db/sqlite"
	"github.com/bryanwahyu/aem-assistant/internal/infra/docpipe"
	kb "github.com/bryanwahyu/aem-assistant/internal/infra/knowledge"
	minioStore "github.com/bryanwahyu/aem-assistant/internal/infra/storage"
	"github.com/bryanwahyu/aem-assistant/internal/infra/web"
	"github.com/bryanwahyu/aem-assistant/internal/middleware"
)

// App holds every wired service plus what must be closed on shutdown.
type App struct {
	Store     *appaem.Service
	Inspector *appinspect.Service
	Assistant *assistant.Workflow
	RAG       *rag.Service
	Ingest    *ingest.Service

	LLM      ai.Client
	Embedder ai.Embedder
	Index    knowledge.Repository

	// HealthChecks feeds /healthz
	HealthChecks map[string]middleware.HealthChecker

	closers []func() error
}

// Close releases the index connection and the browser, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New wires the application from cfg. Index and MinIO are optional; when configured
// they must be reachable at start.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	llm, embedder, err := NewLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("llm provider ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.Bool("embeddings", embedder != nil))

	app := &App{
		Store:        appaem.NewService(domaem.DefaultSeed()),
		LLM:          llm,
		Embedder:     embedder,
		HealthChecks: map[string]middleware.HealthChecker{},
	}

	fetcher := NewFetcher(cfg, logger)
	if c, ok := fetcher.(interface{ Close() error }); ok {
		app.closers = append(app.closers, c.Close)
	}
	app.Inspector = &appinspect.Service{Fetcher: fetcher, Logger: logger.Named("inspector")}

	var (
		assistantKB knowledge.Retriever = kb.StaticRetriever{Snippets: kb.AssistantSnippets()}
		ragKB       knowledge.Retriever = kb.StaticRetriever{Snippets: kb.KnowledgeBaseSnippets()}
	)

	if cfg.IndexEnabled() {
		conn, repo, err := OpenIndex(ctx, cfg.Index.Driver, cfg.Index.DSN)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.closers = append(app.closers, conn.Close)
		app.Index = repo
		app.HealthChecks["index"] = middleware.CheckFunc(repo.Ping)
		logger.Info("knowledge index connected", zap.String("driver", cfg.Index.Driver))

		if embedder != nil {
			assistantKB = &kb.VectorRetriever{Repo: repo, Embedder: embedder, TopK: cfg.Index.TopK, Fallback: assistantKB, Logger: logger.Named("retriever")}
			ragKB = &kb.VectorRetriever{Repo: repo, Embedder: embedder, TopK: cfg.Index.TopK, Fallback: ragKB, Logger: logger.Named("retriever")}
		}
	}

	var archive knowledge.ObjectStore
	if cfg.MinioEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		archive = store
		app.HealthChecks["minio"] = middleware.CheckFunc(store.Ping)
	}

	app.Assistant = assistant.New(llm, app.Store, app.Inspector, assistantKB, logger.Named("assistant"))
	app.RAG = &rag.Service{LLM: llm, Retriever: ragKB, Store: app.Store, Logger: logger.Named("rag")}
	app.Ingest = &ingest.Service{
		Extractor: docpipe.NewExtractor(),
		Splitter:  docpipe.Splitter{Size: cfg.Ingest.ChunkSize, Overlap: cfg.Ingest.ChunkOverlap},
		Repo:      app.Index,
		Embedder:  embedder,
		Archive:   archive,
		Clock:     application.SystemClock{},
		Logger:    logger.Named("ingest"),
	}
	return app, nil
}

// NewLLM builds the configured provider. The embedder is nil when the provider cannot
// produce embeddings (groq, or no embedding model configured).
func NewLLM(ctx context.Context, cfg *config.Config) (ai.Client, ai.Embedder, error) {
	l := cfg.LLM
	switch l.Provider {
	case config.ProviderLocal:
		c := local.New()
		return c, c, nil

	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, l.Gemini.APIKey, l.Gemini.Model, l.Gemini.EmbeddingModel, "")
		if err != nil {
			return nil, nil, err
		}
		c.Temperature = l.Temperature
		c.MaxTokens = int32(l.MaxTokens)
		if c.EmbeddingModel == "" {
			return c, nil, nil
		}
		return c, c, nil

	case config.ProviderOpenAI, config.ProviderAzure, config.ProviderGroq:
		var (
			c   *openai.Client
			err error
		)
		switch l.Provider {
		case config.ProviderOpenAI:
			c, err = openai.NewClient(l.OpenAI.APIKey, l.OpenAI.BaseURL, l.OpenAI.Model, l.OpenAI.EmbeddingModel)
		case config.ProviderAzure:
			c, err = openai.NewAzureClient(l.Azure.APIKey, l.Azure.Endpoint, l.Azure.InstanceName,
				l.Azure.APIVersion, l.Azure.Deployment, l.Azure.EmbeddingDeployment)
		default:
			c, err = openai.NewGroqClient(l.Groq.APIKey, l.Groq.BaseURL, l.Groq.Model)
		}
		if err != nil {
			return nil, nil, err
		}
		c.Temperature = l.Temperature
		c.MaxTokens = l.MaxTokens
		if c.EmbeddingModel == "" {
			return c, nil, nil
		}
		return c, c, nil
	}
	return nil, nil, fmt.Errorf("llm provider %q: %w", l.Provider, ai.ErrNotConfigured)
}

// NewFetcher returns the page fetcher for inspector.renderer.
func NewFetcher(cfg *config.Config, logger *zap.Logger) domain.Fetcher {
	if cfg.Inspector.Renderer == "browser" {
		return web.NewBrowserFetcher(cfg.Inspector.Timeout, cfg.Inspector.BrowserURL, logger.Named("browser"))
	}
	return web.NewHTTPFetcher(cfg.Inspector.Timeout, cfg.Inspector.UserAgent, cfg.Inspector.MaxBodyBytes)
}

// OpenIndex connects to the chunk index and applies its schema.
func OpenIndex(ctx context.Context, driver, dsn string) (*sql.DB, knowledge.Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var (
		conn    *sql.DB
		err     error
		migrate func(context.Context, *sql.DB) error
		newRepo func(*sql.DB) knowledge.Repository
	)
	switch driver {
	case "sqlite":
		conn, err = sqlite.Connect(ctx, dsn)
		migrate = sqlite.Migrate
		newRepo = func(db *sql.DB) knowledge.Repository { return sqlite.NewChunkRepository(db) }
	case "mysql":
		conn, err = mysqlp.Connect(ctx, dsn)
		migrate = mysqlp.Migrate
		newRepo = func(db *sql.DB) knowledge.Repository { return mysqlp.NewChunkRepository(db) }
	case "postgres":
		conn, err = postgres.Connect(ctx, dsn)
		migrate = postgres.Migrate
		newRepo = func(db *sql.DB) knowledge.Repository { return postgres.NewChunkRepository(db) }
	default:
		return nil, nil, fmt.Errorf("index driver %q not supported", driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s connect: %w", driver, err)
	}
	if err := migrate(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s migrate: %w", driver, err)
	}
	return conn, newRepo(conn), nil
}
