package main

import (
	"fmt"

	"github.com/dkeye/Podcast/internal/domain"
	"github.com/spf13/cobra"
)

var (
	flagSessionHost  string
	flagSessionTitle string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage podcast sessions",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an active session and print its invite key",
	Long: `Create an active session and print its invite key.

Examples:
  podcast session create --host u-1 --title "Episode 12"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sess, err := st.CreateSession(cmd.Context(), domain.UserID(flagSessionHost), flagSessionTitle)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sess.RoomID)
		return nil
	},
}

var sessionEndCmd = &cobra.Command{
	Use:   "end <room-id>",
	Short: "Mark a session as ended",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		return st.EndSession(cmd.Context(), domain.RoomID(args[0]))
	},
}

func init() {
	sessionCreateCmd.Flags().StringVar(&flagSessionHost, "host", "", "host user id")
	sessionCreateCmd.Flags().StringVar(&flagSessionTitle, "title", "", "session title")
	_ = sessionCreateCmd.MarkFlagRequired("host")
	sessionCmd.AddCommand(sessionCreateCmd, sessionEndCmd)
}
