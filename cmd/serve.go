package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/planforge/planforge/internal/llm"
	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/pipeline"
	"github.com/planforge/planforge/internal/resources"
	"github.com/planforge/planforge/internal/server"
	"github.com/planforge/planforge/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the lesson plan HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger("production")
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		provider, err := buildProvider(ctx, st.AuditLog(), log)
		if err != nil {
			return err
		}

		lookup := resourceLookup()
		pl := pipeline.New(provider, lookup, pipeline.DefaultConfig(), log)

		srv := server.New(server.ConfigFromEnv(), pl, lookup, log)
		return srv.Run(ctx)
	},
}

// buildProvider assembles the configured LLM provider with retry and audit
// logging. When no PLANFORGE_* provider config is present it probes the
// standard API key env vars before giving up.
func buildProvider(ctx context.Context, audit store.AuditLog, log *logger.Logger) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no LLM provider configured: %w", err)
		}
		cfg = discovered
	}
	provider, err := llm.NewProvider(ctx, cfg, audit, log)
	if err != nil {
		return nil, fmt.Errorf("build LLM provider: %w", err)
	}
	return provider, nil
}

// resourceLookup returns the external resource source, or nil when
// enrichment is disabled via PLANFORGE_RESOURCES=off.
func resourceLookup() resources.Lookup {
	if os.Getenv("PLANFORGE_RESOURCES") == "off" {
		return nil
	}
	return resources.NewWikipediaClient(10 * time.Second)
}
