package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/dailywisdom/internal/welcome"
)

var welcomeCmd = &cobra.Command{
	Use:   "welcome",
	Short: "Show the welcome pages again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		printWelcome(cmd.OutOrStdout(), a)
		return nil
	},
}

var welcomeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Show the welcome pages on the next run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := welcome.Reset(cmd.Context(), a.kv); err != nil {
			return fmt.Errorf("%s: %w", a.t("errors.welcomeResetError"), err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.t("notifications.welcomeReset"))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(welcomeCmd)
	welcomeCmd.AddCommand(welcomeResetCmd)
}
