package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	DbPath    string
	Verbosity int
)

// RegisterCommands adds all subcommands to the root command
func RegisterCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(coverageCmd())
	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(mcpCmd())
}

// newLogger builds a logger whose level follows the -v count
func newLogger() *log.Logger {
	level := log.WarnLevel
	switch {
	case Verbosity >= 2:
		level = log.DebugLevel
	case Verbosity == 1:
		level = log.InfoLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
}
