package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/panyam/vizsync/render"
)

var (
	exportFormat  string
	exportOutFile string
)

var exportCmd = &cobra.Command{
	Use:   "export <source-file>",
	Short: "Export a diagram as SVG or PNG",
	Long: `Export a diagram source file through the configured backend.

PNG export depends on the backend rasterizing the detected diagram
type; when it refuses, the shareable URL is printed instead so the
image can be fetched directly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		source := string(data)
		client := render.NewClient(getBackendURL())

		switch exportFormat {
		case "svg":
			svg, err := client.FetchSVG(cmd.Context(), source)
			if err != nil {
				return err
			}
			return writeOutput(exportOutFile, svg)
		case "png":
			png, err := client.FetchPNG(cmd.Context(), source)
			if err != nil {
				url, urlErr := client.PNGURL(source)
				if urlErr != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "⚠️  backend refused PNG (%v), fetch it from:\n", err)
				fmt.Println(url)
				return nil
			}
			return writeOutput(exportOutFile, png)
		default:
			return fmt.Errorf("unsupported format %q (svg, png)", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "svg", "Export format: svg or png")
	exportCmd.Flags().StringVarP(&exportOutFile, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
