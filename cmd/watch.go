package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arcanaland/dailywisdom/internal/countdown"
	"github.com/arcanaland/dailywisdom/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show today's card and the next one as soon as the day rolls over",
	Long: `Watch prints today's wisdom card, then keeps running and checks the local day
on a fixed interval (poll_interval in the config, 30s by default). When local
midnight passes, the new day's card is printed. Stop it with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		interval, err := a.config.Interval()
		if err != nil {
			return err
		}
		loc, err := a.config.Location()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		noArt, _ := cmd.Flags().GetBool("no-art")

		showWelcomeOnce(ctx, out, a)

		c, note, err := a.dailyCard(ctx)
		if err != nil {
			return err
		}
		a.displayCard(out, c, note, !noArt)

		poller := &countdown.Poller{Interval: interval, Location: loc}
		poller.Run(ctx, func(ctx context.Context, day string) {
			logger.Info("day rolled over", "day", day)
			c, note, err := a.dailyCard(ctx)
			if err != nil {
				logger.Error("no card for new day", "day", day, "err", err)
				return
			}
			if note == "" {
				note = a.t("notifications.newCardAvailable")
			}
			a.displayCard(out, c, note, !noArt)
		})
		return nil
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("deck", "d", "", "Specify a deck from your deck library or a path to a deck")
	watchCmd.Flags().Bool("no-art", false, "Do not render the card image")
}
