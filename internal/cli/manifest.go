package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	functions "github.com/Jayother24/firebase-functions"
)

var manifestFormat string

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print the compiled deployment manifest",
	Long: `Compile the deployment manifest for every registered function and
print it to stdout.

Examples:
  funchost manifest
  funchost manifest --format yaml`,
	RunE: runManifest,
}

func init() {
	manifestCmd.Flags().StringVar(&manifestFormat, "format", "json", "output format (json or yaml)")
	rootCmd.AddCommand(manifestCmd)
}

func runManifest(cmd *cobra.Command, args []string) error {
	manifest := functions.BuildManifest()

	switch manifestFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(manifest)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(manifest)
	default:
		return fmt.Errorf("unknown format: %s", manifestFormat)
	}
}
