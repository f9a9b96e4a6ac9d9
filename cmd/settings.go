package cmd

import (
	"fmt"
	"io"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/dailywisdom/internal/config"
	"github.com/arcanaland/dailywisdom/internal/settings"
)

var fontCmd = &cobra.Command{
	Use:   "font [next|name]",
	Short: "Show or change the card font",
	Long: `Font lists the card fonts and marks the current one. 'dailywisdom font next'
moves to the next font, wrapping around; a font name selects it directly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		w := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(w, colorize.CyanString("%s:", a.t("settings.fonts.title")))
			current := a.settings.Font().Key
			for _, f := range settings.FontOptions() {
				printOption(w, f.Key == current, f.Key, a.t(f.LabelKey))
			}
			return nil
		}

		if args[0] == "next" {
			a.settings.CycleFont()
		} else if err := a.settings.SetFont(args[0]); err != nil {
			return err
		}

		if err := a.saveSettings(); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s\n", a.t("settings.fonts.title"), a.t(a.settings.Font().LabelKey))
		return nil
	},
}

var langCmd = &cobra.Command{
	Use:   "lang [code]",
	Short: "Show or change the display language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		w := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(w, colorize.CyanString("%s:", a.t("settings.language.title")))
			for _, tag := range a.bundle.Languages() {
				code := tag.String()
				printOption(w, tag == a.lang, code, a.t("settings.language."+code))
			}
			return nil
		}

		if !a.bundle.Supported(args[0]) {
			return fmt.Errorf("unsupported language %q", args[0])
		}
		a.settings.SetLanguage(args[0])
		a.lang = a.bundle.Match(args[0])

		if err := a.saveSettings(); err != nil {
			return err
		}
		fmt.Fprintln(w, a.t("notifications.settingsSaved"))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(fontCmd)
	RootCmd.AddCommand(langCmd)
}

// saveSettings writes the settings object back to the config file
func (a *app) saveSettings() error {
	a.settings.Apply(a.config)
	if err := config.SaveConfig(a.config); err != nil {
		return fmt.Errorf("%s: %w", a.t("errors.settingsSaveError"), err)
	}
	return nil
}

func printOption(w io.Writer, selected bool, key, label string) {
	if selected {
		fmt.Fprintf(w, "* %-8s %s\n", key, colorize.GreenString("%s", label))
		return
	}
	fmt.Fprintf(w, "  %-8s %s\n", key, label)
}
