package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zheng/documember/internal/coverage"
	"github.com/zheng/documember/internal/export"
)

func coverageCmd() *cobra.Command {
	var flags walkFlags
	var format string
	var minPercent float64

	cmd := &cobra.Command{
		Use:   "coverage <target>",
		Short: "Compute documentation coverage for a package or description file",
		Long: `Walk a namespace and report how many of its members carry documentation,
broken down by member kind and by namespace.

With --min the command fails when total coverage falls below the given
percentage, which makes it usable as a CI gate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			root, err := audit(args[0], flags.config(logger), logger)
			if err != nil {
				return err
			}

			stats := coverage.Compute(args[0], root)

			switch format {
			case "json":
				if err := outputJSON(stats); err != nil {
					return err
				}
			case "markdown":
				opts := export.DefaultOptions()
				opts.IncludeTree = false
				if err := export.NewExporter(root, stats).WriteMarkdown(os.Stdout, opts); err != nil {
					return err
				}
			default:
				printStats(stats)
			}

			if minPercent > 0 && stats.Total.Percent() < minPercent {
				return fmt.Errorf("coverage %.1f%% is below the required %.1f%%",
					stats.Total.Percent(), minPercent)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "output format (text/json/markdown)")
	cmd.Flags().Float64Var(&minPercent, "min", 0, "fail when coverage is below this percentage")

	return cmd
}
