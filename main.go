package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zheng/documember/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "documember",
		Short: "Audit documentation coverage of a namespace",
		Long: `documember walks a namespace, classifies every member by kind, origin
and documentation status, and renders the result as an annotated tree.

It understands two kinds of targets: a Go package directory, inspected
through the standard toolchain, and a JSON namespace description file.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cmd.DbPath, "db", "d", ".documember.db", "history database path")
	rootCmd.PersistentFlags().CountVarP(&cmd.Verbosity, "verbose", "v", "increase log verbosity (repeatable)")

	cmd.RegisterCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
