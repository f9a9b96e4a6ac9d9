package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcanaland/dailywisdom/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a wisdom card deck directory",
	Long: `Validate checks a deck directory: the deck.toml manifest, every card entry and
the image and video files it points at. Images on disk that no card lists are
reported as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckPath := args[0]

		if _, err := os.Stat(deckPath); os.IsNotExist(err) {
			return fmt.Errorf("deck directory not found: %s", deckPath)
		}

		v := validator.NewValidator(deckPath)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Validation Results:")
		fmt.Fprintln(w, "-------------------")

		if len(results.Errors) > 0 {
			fmt.Fprintf(w, "❌ Deck '%s' has %d validation errors:\n", deckPath, len(results.Errors))
			for i, e := range results.Errors {
				fmt.Fprintf(w, "%d. %s\n", i+1, e)
			}
			return fmt.Errorf("validation failed")
		}
		fmt.Fprintf(w, "✅ Deck '%s' is valid.\n", deckPath)

		if len(results.Warnings) > 0 {
			fmt.Fprintln(w, "\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Fprintf(w, "%d. %s\n", i+1, warn)
			}
		}
		return nil
	},
}
