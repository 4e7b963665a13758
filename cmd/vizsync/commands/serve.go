package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/panyam/vizsync/render"
	"github.com/panyam/vizsync/web"
)

var initialFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vizsync session server",
	Long: `Start the vizsync server hosting live diagram editing sessions.

The server provides:
- WebSocket endpoint for the editor protocol (ws://host:port/ws)
- JSON API for status and diagram exports
- Rendering proxied through a Kroki-compatible backend

Example:
  # Terminal 1: start server
  vizsync serve

  # Terminal 2: check it
  vizsync status

  # Start with a seed document and a self-hosted backend
  vizsync serve --file diagram.puml --backend http://localhost:8000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, port := getServeConfig()
		addr := fmt.Sprintf("%s:%d", host, port)

		server := web.NewServer(addr, render.NewClient(getBackendURL()), slog.Default())
		server.Version = Version
		if initialFile != "" {
			data, err := os.ReadFile(initialFile)
			if err != nil {
				return fmt.Errorf("cannot read initial file: %w", err)
			}
			server.InitialDocument = string(data)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("🚀 vizsync server %s\n", Version)
		fmt.Printf("📡 WebSocket: ws://%s/ws\n", addr)
		fmt.Printf("🛠️  API:       http://%s/api\n", addr)

		return server.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&initialFile, "file", "f", "", "Seed document served to new sessions")
	rootCmd.AddCommand(serveCmd)
}
