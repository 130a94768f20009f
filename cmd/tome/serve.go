package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomehq/tome/internal/backend"
	"github.com/tomehq/tome/internal/book"
	"github.com/tomehq/tome/internal/config"
	"github.com/tomehq/tome/internal/home"
	"github.com/tomehq/tome/internal/planner"
	"github.com/tomehq/tome/internal/server"
	"github.com/tomehq/tome/internal/store"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Tome server",
	Long: `Start the Tome HTTP server.

The server refuses to start unless the completion backend credentials and
the Redis store address are configured and Redis is reachable.

The server provides:
  /health                   - Basic server health check
  /ready                    - Readiness check (includes the document store)
  /api/books/generate       - Run the generation pipeline for a topic
  /api/books/document       - Retrieve the generated markdown document
  /api/books/status         - Inspect pipeline progress

Examples:
  tome serve                    # Start on default port 8080
  tome serve --port 3000        # Start on custom port
  tome serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Seed a starter config in the home directory on first run.
		if cfgFile == "" && !h.ConfigExists() {
			if err := config.WriteDefault(h.ConfigPath()); err != nil {
				return fmt.Errorf("failed to write default config: %w", err)
			}
			logger.Info("wrote default config", "path", h.ConfigPath())
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cm.OnChange(func(c *config.Config) {
			logger.Info("configuration reloaded")
		})
		cm.WatchConfig()

		var client backend.Client
		switch cfg.Backend.Type {
		case backend.OpenAIName:
			client = backend.NewOpenAIClient(cfg.ToBackendConfig(), logger)
		default:
			client = backend.NewOpenRouterClient(cfg.ToBackendConfig(), logger)
		}
		logger.Info("completion backend configured", "provider", client.Name(), "model", cfg.Backend.Model)

		st, err := store.NewRedisStore(cfg.ToStoreConfig())
		if err != nil {
			return fmt.Errorf("failed to connect to document store: %w", err)
		}
		defer st.Close()

		p := planner.New(client, planner.Options{
			Logger:        logger,
			Temperature:   cfg.Backend.Temperature,
			WordsPerPage:  cfg.Pipeline.WordsPerPage,
			TokensPerPage: cfg.Pipeline.TokensPerPage,
		})
		gen := book.NewGenerator(p, st, book.GeneratorOptions{
			Logger:     logger,
			Blueprints: cfg.Pipeline.Blueprints,
		})

		host := serveHost
		if host == "" {
			host = cfg.Server.Host
		}
		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv, err := server.New(server.Config{
			Host:      host,
			Port:      port,
			Store:     st,
			Generator: gen,
			Logger:    logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
