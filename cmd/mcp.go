package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zheng/documember/internal/mcp"
	"github.com/zheng/documember/internal/storage"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP (Model Context Protocol) server",
		Long: `Start an MCP server over stdio so AI assistants can audit documentation
coverage directly.

Tools:
  report     render an annotated member tree for a target
  coverage   compute coverage statistics for a target
  history    list recorded coverage snapshots`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(DbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			server := mcp.NewServer(db, newLogger())
			return server.Run()
		},
	}

	return cmd
}
