package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arcanaland/dailywisdom/internal/config"
	"github.com/arcanaland/dailywisdom/internal/logger"
)

var debug bool

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dailywisdom",
	Short: "One wisdom card a day",
	Long: `Daily Wisdom shows one short wisdom card per day, chosen at random from a deck
and kept until local midnight. It also builds and validates card decks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logger.Config{Debug: debug, LogDir: config.GetLogDir()})
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug logs to stderr")
	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
