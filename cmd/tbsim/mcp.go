package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tbsim/internal/ipc"
	"github.com/1broseidon/tbsim/internal/mcp"
)

func newMCPCommand() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}
	mcpCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdio. It forwards tool calls to a running
tbsim daemon, so start the daemon first.

Example:
  claude mcp add tbsim -- tbsim mcp serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol; logs go to stderr.
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			server := mcp.NewServer(ipc.NewClient(), logger)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	})
	return mcpCmd
}
