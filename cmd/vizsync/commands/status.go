package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check a running vizsync server",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := makeAPICall[map[string]any]("GET", "/api/status", nil)
		if err != nil {
			return fmt.Errorf("cannot reach server at %s: %w", getServerURL(), err)
		}
		fmt.Printf("✅ Server:  %s\n", getServerURL())
		fmt.Printf("   Status:  %v\n", out["status"])
		fmt.Printf("   Version: %v\n", out["version"])
		fmt.Printf("   Backend: %v\n", out["backend"])
		fmt.Printf("   Clients: %v\n", out["clients"])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
