package main

import (
	"fmt"

	"github.com/dkeye/Podcast/internal/adapters/auth"
	"github.com/dkeye/Podcast/internal/domain"
	"github.com/spf13/cobra"
)

var flagTokenName string

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue an identity token for local testing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		user, err := domain.NewUser(args[0], flagTokenName)
		if err != nil {
			return err
		}
		token, err := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL).GenerateToken(user)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&flagTokenName, "name", "", "display name")
}
