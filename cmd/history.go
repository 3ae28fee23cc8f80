package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zheng/documember/internal/storage"
)

func historyCmd() *cobra.Command {
	var limit int
	var format string
	var deleteTarget bool

	cmd := &cobra.Command{
		Use:   "history [target]",
		Short: "List recorded coverage snapshots",
		Long: `List coverage snapshots recorded with "documember record", newest first.
With a target argument only that target's snapshots are shown.

Use --delete together with a target to drop its snapshots.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) > 0 {
				target = args[0]
			}

			db, err := storage.Open(DbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if deleteTarget {
				if target == "" {
					return fmt.Errorf("--delete requires a target")
				}
				n, err := db.DeleteRunsByTarget(target)
				if err != nil {
					return fmt.Errorf("failed to delete snapshots: %w", err)
				}
				fmt.Printf("Deleted %d snapshots for %s\n", n, target)
				return nil
			}

			runs, err := db.ListRuns(target, limit)
			if err != nil {
				return fmt.Errorf("failed to list snapshots: %w", err)
			}

			if format == "json" {
				return outputJSON(runs)
			}

			if len(runs) == 0 {
				fmt.Println("No recorded snapshots. Run `documember record <target>` first.")
				return nil
			}

			fmt.Printf("%-5s %-30s %-20s %8s %11s %9s\n",
				"ID", "TARGET", "RECORDED", "MEMBERS", "DOCUMENTED", "COVERAGE")
			for _, run := range runs {
				fmt.Printf("%-5d %-30s %-20s %8d %11d %8.1f%%\n",
					run.ID, run.Target, run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					run.Total, run.Documented, run.Percent())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of snapshots to show (0 = all)")
	cmd.Flags().StringVar(&format, "format", "text", "output format (text/json)")
	cmd.Flags().BoolVar(&deleteTarget, "delete", false, "delete all snapshots for the given target")

	return cmd
}
