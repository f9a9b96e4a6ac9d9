package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget today's card so the next run draws a new one",
	Long: `Reset clears the stored daily selection. The next 'dailywisdom today' draws a
fresh card without any repeat avoidance. Mostly useful while testing decks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.selector.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("error clearing selection: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), a.t("notifications.selectionReset"))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(resetCmd)

	resetCmd.Flags().StringP("deck", "d", "", "Specify a deck from your deck library or a path to a deck")
}
