// Package cli holds the cobra commands of the worldos operator CLI.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/worldos/console/internal/app"
	"github.com/worldos/console/internal/config"
)

// storageFlags override the storage section of the loaded configuration.
type storageFlags struct {
	backend  string
	path     string
	document string
	verbose  bool
}

// RootCmd returns the worldos root command.
func RootCmd(version string) *cobra.Command {
	flags := &storageFlags{}

	cmd := &cobra.Command{
		Use:   "worldos",
		Short: "Inspect and edit world-building projects",
		Long: `worldos reads and writes the project collection used by the worldos server.

Storage is taken from the same configuration as the server (WORLDOS_CONFIG_PATH
and WORLDOS_STORAGE_* variables) unless overridden by flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "storage backend (file or sqlite)")
	cmd.PersistentFlags().StringVar(&flags.path, "storage", "", "storage path (JSON file or SQLite database)")
	cmd.PersistentFlags().StringVar(&flags.document, "document", "", "document name inside the SQLite database")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log storage activity to stderr")

	cmd.AddCommand(projectsCmd(flags))
	cmd.AddCommand(validateCmd())

	return cmd
}

func (f *storageFlags) open() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.backend != "" {
		cfg.Storage.Backend = f.backend
	}
	if f.path != "" {
		cfg.Storage.Path = f.path
	}
	if f.document != "" {
		cfg.Storage.Document = f.document
	}
	cfg.Metrics.Enabled = false
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return app.Open(cfg, logger)
}
