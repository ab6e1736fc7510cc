// Command aemctl is the operator CLI: it inspects the seeded store, probes pages and asks
// the assistant without going through the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/aem-assistant/internal/bootstrap"
	"github.com/bryanwahyu/aem-assistant/internal/config"
)

type cli struct {
	configPath string
	provider   string
	verbose    bool
	plain      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "aemctl",
		Short:         "Operate the AEM assistant from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", envOr("CONFIG_PATH", "config.yaml"), "path to config.yaml")
	root.PersistentFlags().StringVar(&c.provider, "provider", "", "override llm.provider (azure, openai, groq, gemini, local)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log to stderr")
	root.PersistentFlags().BoolVar(&c.plain, "plain", false, "print answers without markdown rendering")

	root.AddCommand(
		c.storeCmd(),
		c.inspectCmd(),
		c.askCmd(),
		c.ingestCmd(),
		c.chunkCmd(),
	)
	return root
}

func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.provider != "" {
		cfg.LLM.Provider = c.provider
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *cli) logger(cfg *config.Config) (*zap.Logger, error) {
	if !c.verbose {
		return zap.NewNop(), nil
	}
	return config.NewLogger(cfg.Log.Level)
}

// app wires every service from config; callers must Close it.
func (c *cli) app(ctx context.Context) (*bootstrap.App, *config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logger(cfg)
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return app, cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
