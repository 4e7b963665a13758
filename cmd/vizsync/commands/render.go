package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/panyam/vizsync/core"
	"github.com/panyam/vizsync/render"
)

var renderOutFile string

var renderCmd = &cobra.Command{
	Use:   "render <source-file>",
	Short: "Render a diagram source to SVG",
	Long: `Render a diagram source file through the configured backend and write
the SVG to stdout or a file. The diagram type is detected from the
source's @start marker.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		source := string(data)

		client := render.NewClient(getBackendURL())
		svg, err := client.Render(cmd.Context(), source)
		if err != nil {
			return err
		}
		if msg, bad := render.DetectErrorOutput(svg); bad {
			fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
		}
		return writeOutput(renderOutFile, svg)
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <source-file>",
	Short: "Print a shareable render URL for a diagram source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		source := string(data)
		client := render.NewClient(getBackendURL())
		url, err := client.RenderURL(source, "svg")
		if err != nil {
			return err
		}
		fmt.Printf("Type: %s\n", core.DetectDiagramType(source))
		fmt.Println(url)
		return nil
	},
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(urlCmd)
}
