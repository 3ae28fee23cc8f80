package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zheng/documember/internal/coverage"
	"github.com/zheng/documember/internal/export"
)

func exportCmd() *cobra.Command {
	var flags walkFlags
	var outputPath string
	var format string
	var noTree bool

	cmd := &cobra.Command{
		Use:   "export <target>",
		Short: "Export an audit as a Markdown report or JSON document",
		Long: `Audit a target and write the result in a machine or human readable form.

Formats:
  markdown   coverage report with per-kind and per-namespace tables
  json       summary tree plus coverage stats

Examples:
  documember export . -o COVERAGE.md
  documember export ./internal --format json -o audit.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			root, err := audit(args[0], flags.config(logger), logger)
			if err != nil {
				return err
			}
			stats := coverage.Compute(args[0], root)

			out := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			exporter := export.NewExporter(root, stats)
			opts := export.DefaultOptions()
			opts.IncludeTree = !noTree

			switch format {
			case "json":
				err = exporter.WriteJSON(out, opts)
			default:
				err = exporter.WriteMarkdown(out, opts)
			}
			if err != nil {
				return err
			}

			if outputPath != "" {
				fmt.Printf("Wrote %s\n", outputPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format (markdown/json)")
	cmd.Flags().BoolVar(&noTree, "no-tree", false, "omit the summary tree from JSON output")

	return cmd
}
