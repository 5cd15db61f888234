package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/convive/convive/internal/config"
	convivemcp "github.com/convive/convive/internal/mcp"
)

var mcpWatch bool

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolVar(&mcpWatch, "watch", false, "Hot-reload the config file on change")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long:  "Runs convive as an MCP (Model Context Protocol) server over stdio.\nExposes events, event, claim, and the confirmation-gated transition tool.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	srv, err := convivemcp.New(convivemcp.Config{ConfigPath: configPath})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	if mcpWatch {
		w, err := config.NewWatcher(configPath, srv.ApplyConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config watch disabled: %v\n", err)
		} else {
			go w.Run(ctx)
		}
	}

	return srv.Run(ctx)
}
