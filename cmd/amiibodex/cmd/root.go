// Package cmd implements the amiibodex command tree.
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brookstreetgames/amiibodex"
	"github.com/brookstreetgames/amiibodex/cmd/amiibodex/app"
	"github.com/brookstreetgames/amiibodex/pkg/logging"
)

var (
	cfg *app.Config
	dex amiibodex.Client
)

var rootCmd = &cobra.Command{
	Use:   "amiibodex",
	Short: "Browse and collect Amiibo figures",
	Long: `amiibodex maintains a local catalog of Amiibo figures synced from the
public Amiibo API, tracks which figures are in your collection, and caches
artwork on disk.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = app.LoadConfig(); err != nil {
			return err
		}
		app.SetupLogger(cfg)

		dex, err = amiibodex.New(
			amiibodex.WithDatabasePath(cfg.DatabasePath),
			amiibodex.WithImageDirectory(cfg.ImageDirectory),
			amiibodex.WithBaseURL(cfg.BaseURL),
			amiibodex.WithHTTPTimeout(cfg.Timeout),
			amiibodex.WithLogger(*logging.Default()),
		)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dex == nil {
			return nil
		}
		return dex.Close()
	},
}

// Execute runs the command tree.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logging.Err(err).Msg("Command failed")
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("database", "amiibodex.db", "path to the SQLite database")
	flags.String("images", "images", "directory for cached artwork")
	flags.String("base-url", "", "override the Amiibo API host")
	flags.Duration("timeout", 10*time.Second, "HTTP request timeout")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "auto", "log format (auto, json)")

	for _, name := range []string{"database", "images", "base-url", "timeout", "log-level", "log-format"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(listCmd, refreshCmd, createCmd, ownCmd, disownCmd, imageCmd)
}
