package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tasklist/internal/config"
	"tasklist/internal/repository"
	"tasklist/internal/store"
)

// options holds the global flags shared by every command.
type options struct {
	configPath string
	dbPath     string
	key        string
}

// Execute runs the root command
func Execute(version string) error {
	root := newRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "tasklist",
		Short: "A single-user task list",
		Long: `tasklist keeps a list of short text tasks in a local SQLite key-value store.

Run without a subcommand to start the web interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&opts.key, "key", "", "Storage key of the task list (overrides config)")

	serve := newServeCmd(opts)
	rootCmd.RunE = serve.RunE
	rootCmd.Flags().AddFlagSet(serve.Flags())

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newDoneCmd(opts, true))
	rootCmd.AddCommand(newDoneCmd(opts, false))
	rootCmd.AddCommand(newEditCmd(opts))
	rootCmd.AddCommand(newRmCmd(opts))
	rootCmd.AddCommand(newClearCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// loadConfig loads the config file and environment, then applies flag overrides.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Storage.Path = o.dbPath
	}
	if o.key != "" {
		cfg.Storage.Key = o.key
	}
	return cfg, nil
}

// openStore opens the key-value store named by cfg, creating its directory.
func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	if cfg.Storage.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	s, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return s, nil
}

// withRepository opens the store, runs fn against a repository over it and
// closes the store.
func (o *options) withRepository(fn func(*repository.Repository) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(repository.New(store.NewTaskStore(s, cfg.Storage.Key)))
}
