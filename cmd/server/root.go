package main

import (
	"os"

	"github.com/dkeye/Podcast/internal/adapters/store"
	"github.com/dkeye/Podcast/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var flagConfigFile string

var rootCmd = &cobra.Command{
	Use:   "podcast",
	Short: "Signaling and room coordination server for video podcasts",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogger(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigFile, "config", "c", "", "config file (default config/config.<CONFIG_ENV>.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, sessionCmd, tokenCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if flagConfigFile != "" {
		return config.LoadFile(flagConfigFile)
	}
	return config.Load()
}

// openStore loads the config and opens the database it points at.
func openStore() (*config.Config, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}
