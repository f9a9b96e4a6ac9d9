package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/dailywisdom/internal/card"
	"github.com/arcanaland/dailywisdom/internal/countdown"
	"github.com/arcanaland/dailywisdom/internal/logger"
	"github.com/arcanaland/dailywisdom/internal/selector"
	"github.com/arcanaland/dailywisdom/internal/theme"
	"github.com/arcanaland/dailywisdom/internal/welcome"
)

const barWidth = 20

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's wisdom card",
	Long: `Today shows the wisdom card for the current local day. The same card is shown
for the whole day; a new one is drawn after local midnight, never the same card
twice in a row when the deck has more than one.

You can pick a deck with --deck, either a name from your deck library
(XDG_DATA_HOME/dailywisdom/decks) or a path. Otherwise the default deck from your
config is used.

Examples:
  dailywisdom today
  dailywisdom today --deck ./my-deck --no-art`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		noArt, _ := cmd.Flags().GetBool("no-art")

		showWelcomeOnce(ctx, out, a)

		c, note, err := a.dailyCard(ctx)
		if err != nil {
			return err
		}
		a.displayCard(out, c, note, !noArt)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(todayCmd)

	todayCmd.Flags().StringP("deck", "d", "", "Specify a deck from your deck library or a path to a deck")
	todayCmd.Flags().Bool("no-art", false, "Do not render the card image")
}

// dailyCard asks the selector for today's card. A store failure degrades to
// the deck's first card with a note for the user; an empty deck is an error.
func (a *app) dailyCard(ctx context.Context) (card.Card, string, error) {
	c, err := a.selector.GetDailyCard(ctx)
	if err == nil {
		return c, "", nil
	}
	if errors.Is(err, selector.ErrCatalogEmpty) {
		return card.Card{}, "", errors.New(a.t("errors.catalogEmpty"))
	}

	logger.Warn("daily card unavailable, using fallback", "err", err)
	fallback, ok := a.selector.Fallback()
	if !ok {
		return card.Card{}, "", errors.New(a.t("errors.catalogEmpty"))
	}
	return fallback, a.t("card.error"), nil
}

// showWelcomeOnce prints the onboarding pages the first time the app runs
func showWelcomeOnce(ctx context.Context, out io.Writer, a *app) {
	seen, err := welcome.HasSeen(ctx, a.kv)
	if err != nil {
		logger.Warn("could not read welcome flag", "err", err)
		return
	}
	if seen {
		return
	}

	printWelcome(out, a)

	if err := welcome.MarkSeen(ctx, a.kv); err != nil {
		logger.Warn("could not save welcome flag", "err", err)
	}
}

func printWelcome(out io.Writer, a *app) {
	for _, page := range welcome.Pages(a.bundle, a.lang) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  "+colorize.HiWhiteString("%s", page.Title))
		for _, line := range strings.Split(page.Body, "\n") {
			fmt.Fprintln(out, "  "+line)
		}
		if page.Button != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "  "+colorize.CyanString("[ %s ]", page.Button))
		}
	}
	fmt.Fprintln(out)
}

// displayCard prints the card art on the left and its text, deck info and
// countdown on the right
func (a *app) displayCard(out io.Writer, c card.Card, note string, withArt bool) {
	var artLines []string
	if withArt {
		art, err := loadCardArt(a.deck.ImagePath(c))
		if err != nil {
			logger.Debug("no card art", "card", c.ID, "err", err)
		} else {
			artLines = strings.Split(strings.TrimRight(art, "\n"), "\n")
		}
	}

	artCols := 0
	for _, line := range artLines {
		artCols = max(artCols, visibleWidth(line))
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	spacing := 4
	infoStartCol := 0
	if artCols > 0 {
		infoStartCol = artCols + spacing
	}
	infoWidth := max(width-infoStartCol-4, 20)

	tone := c.ToneOr(card.ToneLight)
	var info []string
	for _, line := range wrapText(c.Text, infoWidth) {
		if colored, err := theme.Foreground(theme.TextColor(tone), line); err == nil && !colorize.NoColor {
			line = colored
		}
		info = append(info, line)
	}

	info = append(info, "")
	info = append(info, colorize.CyanString("Deck: ")+colorize.HiWhiteString("%s", a.deck.Name))
	info = append(info, colorize.CyanString("Card: ")+colorize.HiWhiteString("#%d", c.ID))
	info = append(info, colorize.CyanString("Font: ")+colorize.HiWhiteString("%s", a.t(a.settings.Font().LabelKey)))
	if video := a.deck.VideoPath(c); video != "" {
		info = append(info, colorize.CyanString("Video: ")+video)
	}
	info = append(info, "")
	info = append(info, a.countdownLine(tone, time.Now()))
	if note != "" {
		info = append(info, "", colorize.YellowString("%s", note))
	}

	fmt.Fprintln(out)
	for i := 0; i < max(len(artLines), len(info)); i++ {
		fmt.Fprint(out, "  ")
		if i < len(artLines) {
			fmt.Fprint(out, artLines[i])
			fmt.Fprint(out, strings.Repeat(" ", infoStartCol-visibleWidth(artLines[i])))
		} else {
			fmt.Fprint(out, strings.Repeat(" ", infoStartCol))
		}
		if i < len(info) {
			fmt.Fprint(out, info[i])
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
}

// countdownLine renders the progress bar and the time left until the next card
func (a *app) countdownLine(tone card.Tone, now time.Time) string {
	loc, err := a.config.Location()
	if err != nil {
		loc = time.Local
	}
	h, m := countdown.Split(countdown.Remaining(now, loc))
	text := a.bundle.Printer(a.lang).Sprintf("card.countdown", h, m)

	if colorize.NoColor {
		return text
	}
	bar := theme.Bar(theme.ResolveBadgeColors(tone, nil), countdown.Progress(now, loc), barWidth)
	return bar + " " + text
}
