package cmd

import (
	"os"

	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "planforge",
	Short: "AI lesson plan generator for teachers",
	Long:  "Planforge generates structured, curriculum-ready lesson plans with an LLM and enriches them with external reference material.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PLANFORGE_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PLANFORGE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// newLogger builds a logger honoring PLANFORGE_LOG_MODE, falling back to
// the given default mode for the command.
func newLogger(defaultMode string) (*logger.Logger, error) {
	mode := os.Getenv("PLANFORGE_LOG_MODE")
	if mode == "" {
		mode = defaultMode
	}
	return logger.New(mode)
}
