package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL  string
	backendURL string
	serveHost  string
	servePort  int
)

var rootCmd = &cobra.Command{
	Use:   "vizsync",
	Short: "vizsync serves live diagram editing sessions",
	Long: `vizsync hosts a diagram editing engine: it renders text-based diagram
sources through a Kroki-compatible backend, keeps an editor and a
co-editing agent in sync, and serves the session over a websocket.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "vizsync server URL (default: VIZSYNC_SERVER_URL env var or http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "render backend URL (default: VIZSYNC_RENDER_URL env var or the public instance)")

	rootCmd.PersistentFlags().StringVar(&serveHost, "host", "", "serve host (default: VIZSYNC_SERVE_HOST env var or localhost)")
	rootCmd.PersistentFlags().IntVar(&servePort, "port", 0, "serve port (default: VIZSYNC_SERVE_PORT env var or 8080)")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
