package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zheng/documember/internal/coverage"
	"github.com/zheng/documember/internal/render"
	"github.com/zheng/documember/internal/summary"
	"github.com/zheng/documember/internal/watcher"
)

func watchCmd() *cobra.Command {
	var flags walkFlags
	var debounceMs int
	var showTree bool

	cmd := &cobra.Command{
		Use:   "watch [target]",
		Short: "Watch a package tree and re-audit on changes",
		Long: `Watch a Go package tree for source changes and report documentation
coverage after each change, with debouncing so rapid edits trigger one audit.

Examples:
  documember watch .                  # watch the current directory
  documember watch ./internal --debounce 1000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}

			// Description files have no directory tree to watch.
			info, err := os.Stat(target)
			if err != nil {
				return fmt.Errorf("cannot watch %s: %w", target, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("cannot watch %s: watch requires a package directory", target)
			}

			logger := newLogger()
			cfg := flags.config(logger)

			root, err := audit(target, cfg, logger)
			if err != nil {
				return fmt.Errorf("initial audit failed: %w", err)
			}
			stats := coverage.Compute(target, root)
			if showTree {
				if err := render.Render(os.Stdout, root, render.Config{}); err != nil {
					return err
				}
				fmt.Println()
			}
			fmt.Printf("Initial audit: %.1f%% documented (%d/%d)\n",
				stats.Total.Percent(), stats.Total.Documented, stats.Total.Total)

			fmt.Printf("\nWatching: %s\n", target)
			fmt.Printf("Debounce: %dms\n", debounceMs)
			fmt.Println("\nPress Ctrl+C to stop...")
			fmt.Println()

			w, err := watcher.New(
				target,
				cfg,
				logger,
				watcher.WithDebounceDelay(time.Duration(debounceMs)*time.Millisecond),
				watcher.WithOnAuditStart(func() {
					fmt.Printf("[%s] Changes detected, auditing...\n", time.Now().Format("15:04:05"))
				}),
				watcher.WithOnAuditDone(func(root *summary.Node, stats *coverage.Stats, duration time.Duration) {
					if showTree {
						fmt.Print(render.Text(root, render.Config{}))
						fmt.Println()
					}
					fmt.Printf("[%s] %.1f%% documented (%d/%d) in %v\n",
						time.Now().Format("15:04:05"), stats.Total.Percent(),
						stats.Total.Documented, stats.Total.Total, duration.Round(time.Millisecond))
				}),
				watcher.WithOnError(func(err error) {
					fmt.Fprintf(os.Stderr, "[%s] Error: %v\n", time.Now().Format("15:04:05"), err)
				}),
			)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}

			w.Start()
			defer w.Stop()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			fmt.Println("\nStopping...")
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&debounceMs, "debounce", 500, "debounce delay in milliseconds")
	cmd.Flags().BoolVar(&showTree, "tree", false, "re-render the annotated member tree after each audit")

	return cmd
}
