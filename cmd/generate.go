package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/dailywisdom/internal/card"
	"github.com/arcanaland/dailywisdom/internal/deck"
	"github.com/arcanaland/dailywisdom/internal/logger"
	"github.com/arcanaland/dailywisdom/internal/manifest"
)

var generateCmd = &cobra.Command{
	Use:   "generate [images-dir]",
	Short: "Build a deck manifest from a directory of card images",
	Long: `Generate scans a directory of card images and writes the deck manifest.
Images are named NN__Text.png or NN__tone-light__Text.png (tone-light or tone-dark),
where NN is the card id. A matching animated_<name>.mp4 or animated3m_<name>.mp4
is recorded as the card's video.

Nothing is written if any file name is invalid; all problems are listed.

Examples:
  dailywisdom generate ./images
  dailywisdom generate ./my-deck/images -o ./my-deck/deck.toml --name "My Deck"
  dailywisdom generate ./images --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imagesDir := args[0]
		out, _ := cmd.Flags().GetString("output")
		watch, _ := cmd.Flags().GetBool("watch")

		opts := manifest.Options{}
		opts.ID, _ = cmd.Flags().GetString("id")
		opts.Name, _ = cmd.Flags().GetString("name")
		opts.Version, _ = cmd.Flags().GetString("version")
		opts.Description, _ = cmd.Flags().GetString("description")
		opts.ImagePrefix, _ = cmd.Flags().GetString("prefix")

		w := cmd.OutOrStdout()

		if !watch {
			cards, err := manifest.Generate(imagesDir, out, opts)
			if err != nil {
				printIssues(w, err)
				return fmt.Errorf("manifest not written")
			}
			fmt.Fprintf(w, "✅ Wrote %d cards to %s\n", len(cards), out)
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		watcher := &manifest.Watcher{
			ImagesDir: imagesDir,
			Out:       out,
			Options:   opts,
			Logger:    logger.Logger,
			OnGenerate: func(cards []card.Card, err error) {
				if err != nil {
					printIssues(w, err)
					return
				}
				fmt.Fprintf(w, "✅ Wrote %d cards to %s\n", len(cards), out)
			},
		}

		fmt.Fprintf(w, "Watching %s for changes (Ctrl+C to stop)\n", imagesDir)
		return watcher.Run(ctx)
	},
}

func init() {
	RootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output", "o", deck.ManifestFile, "Manifest file to write")
	generateCmd.Flags().Bool("watch", false, "Regenerate whenever the images directory changes")
	generateCmd.Flags().String("id", "daily-wisdom", "Deck id")
	generateCmd.Flags().String("name", "Daily Wisdom", "Deck name")
	generateCmd.Flags().String("version", "1.0.0", "Deck version")
	generateCmd.Flags().String("description", "", "Deck description")
	generateCmd.Flags().String("prefix", "", "Path prepended to asset names (default: images dir relative to the manifest)")
}

func printIssues(w io.Writer, err error) {
	var issues manifest.Issues
	if !errors.As(err, &issues) {
		fmt.Fprintf(w, "❌ %v\n", err)
		return
	}
	fmt.Fprintf(w, "❌ Found %d problems:\n", len(issues))
	for i, issue := range issues {
		fmt.Fprintf(w, "%d. %s\n", i+1, colorize.RedString("%s", issue))
	}
}
