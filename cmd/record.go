package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zheng/documember/internal/coverage"
	"github.com/zheng/documember/internal/storage"
)

func recordCmd() *cobra.Command {
	var flags walkFlags

	cmd := &cobra.Command{
		Use:   "record <target>",
		Short: "Record a coverage snapshot in the history database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			root, err := audit(args[0], flags.config(logger), logger)
			if err != nil {
				return err
			}
			stats := coverage.Compute(args[0], root)

			db, err := storage.Open(DbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			id, err := db.InsertRun(args[0], flags.fingerprint(), stats)
			if err != nil {
				return fmt.Errorf("failed to record snapshot: %w", err)
			}

			fmt.Printf("Recorded snapshot %d: %s at %.1f%% (%d/%d documented)\n",
				id, args[0], stats.Total.Percent(), stats.Total.Documented, stats.Total.Total)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
