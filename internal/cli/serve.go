package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/candidlab/interviewd/internal/config"
	"github.com/candidlab/interviewd/internal/interview"
	"github.com/candidlab/interviewd/internal/llm"
	"github.com/candidlab/interviewd/internal/server"
	"github.com/candidlab/interviewd/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the interview server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if cfg.OpenAI.APIKey == "" {
				// Hosting platforms (Railway, Render, Heroku) set PORT; there
				// the service starts degraded so the platform sees it as up
				// and /health reports the missing credential. Locally, refuse
				// to start.
				if os.Getenv("PORT") != "" {
					log.Warn().Msg("starting without OPENAI_API_KEY; completion calls will fail until it is set")
				} else {
					return fmt.Errorf("OPENAI_API_KEY is not set; export it or add openai.apiKey to %s", cfgFile)
				}
			}

			sessions, cleanup, err := openSessionStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			client := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
			conductor := interview.NewConductor(sessions, client, log)
			monitor := server.NewMonitor(log)
			conductor.Observe(monitor)

			srv := server.New(cfg, conductor, monitor, cfg.OpenAI.APIKey != "", log)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")

	return cmd
}

// openSessionStore builds the configured store. The returned cleanup closes
// any underlying database.
func openSessionStore(cfg config.Config) (store.SessionStore, func(), error) {
	seed := interview.SystemTurn()

	if cfg.Session.Store == "sqlite" {
		db, err := store.Open(cfg.Session.Path, log)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		log.Info().Str("path", cfg.Session.Path).Msg("using SQLite session store")
		return store.NewSQLiteSessionStore(db, seed), func() { db.Close() }, nil
	}

	if err := store.EnsureDir(cfg.Session.Path); err != nil {
		return nil, nil, fmt.Errorf("creating store directory: %w", err)
	}
	log.Info().Str("path", cfg.Session.Path).Msg("using JSON session store")
	return store.OpenFileStore(cfg.Session.Path, seed, log), func() {}, nil
}
