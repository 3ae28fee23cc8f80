package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zheng/documember/internal/render"
	"github.com/zheng/documember/internal/summary"
)

func reportCmd() *cobra.Command {
	var flags walkFlags
	var showDocstrings bool
	var showFullDocstrings bool

	cmd := &cobra.Command{
		Use:   "report <target>",
		Short: "Render an annotated member tree for a package or description file",
		Long: `Walk a namespace and print its members as an indented tree.

Undocumented members are marked "(undocumented)", members picked up from
an ancestor are marked "(inherited)", members defined elsewhere are marked
"(imported)", and members listed in a declared export list are marked
"(__all__)".

Examples:
  documember report ./internal/render          # audit a Go package tree
  documember report testdata/sample.json       # audit a description file
  documember report . --include-private -v     # show private members too`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg := flags.config(logger)
			switch {
			case showFullDocstrings:
				cfg.Docstrings = summary.DetailFull
			case showDocstrings:
				cfg.Docstrings = summary.DetailOneLine
			}

			root, err := audit(args[0], cfg, logger)
			if err != nil {
				return err
			}

			return render.Render(os.Stdout, root, render.Config{
				Docstrings: cfg.Docstrings,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&showDocstrings, "show-docstrings", false, "show the first line of each docstring")
	cmd.Flags().BoolVar(&showFullDocstrings, "show-full-docstrings", false, "show complete docstrings")
	cmd.MarkFlagsMutuallyExclusive("show-docstrings", "show-full-docstrings")

	return cmd
}
