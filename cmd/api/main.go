package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/aem-assistant/internal/bootstrap"
	"github.com/bryanwahyu/aem-assistant/internal/config"
	"github.com/bryanwahyu/aem-assistant/internal/infra/httpserver"
	"github.com/bryanwahyu/aem-assistant/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close resources", zap.Error(err))
		}
	}()

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst, logger.Named("ratelimit"))

	handler := httpserver.NewRouter(httpserver.Services{
		Store:     app.Store,
		Inspector: app.Inspector,
		Assistant: app.Assistant,
		RAG:       app.RAG,
		Ingest:    app.Ingest,
	}, httpserver.Options{
		Logger:       logger.Named("http"),
		CORSOrigins:  cfg.Server.CORSOrigins,
		APIKeys:      cfg.Server.APIKeys,
		RateLimiter:  limiter,
		HealthChecks: app.HealthChecks,
		MaxUpload:    cfg.Ingest.MaxUpload,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	// run server
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", addr), zap.String("provider", cfg.LLM.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// buang bucket rate limit yang idle
	g.Go(func() error {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				limiter.Sweep()
			}
		}
	})

	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
