// ABOUTME: Root command for the siria-admin CLI
// ABOUTME: Handles global flags and configuration

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/config"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/logger"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/output"
)

var (
	apiURL       string
	jsonOutput   bool
	outputFormat string
	ephemeral    bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "siria-admin",
	Short: "Admin client for the Siria Farma product catalog",
	Long: `siria-admin manages the Siria Farma product catalog from the terminal.

Log in once, then list, create, update and delete products, or run
"siria-admin tui" for the interactive interface.

Environment Variables:
  SIRIA_API_URL              Backend API URL (default: http://localhost:8080)
  SIRIA_CONFIG_DIR           Where the session and debug log are kept
  SIRIA_HTTP_TIMEOUT         Request timeout, e.g. 30s
  SIRIA_PAGE_SIZE            Default page size for product listings
  SIRIA_LOW_STOCK_THRESHOLD  Stock below this is reported as low (default: 10)
  SIRIA_STRICT_SHAPES        Fail on unrecognized list responses instead of showing none
  SIRIA_AUTO_REFRESH         Refresh the session once when the API rejects the token
  LOG_LEVEL, LOG_FORMAT      Diagnostic logging to stderr`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(os.Stderr)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides SIRIA_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, or yaml")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the session in memory only")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("SIRIA_API_URL"); envURL != "" {
		return envURL
	}
	return config.DefaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// OutputFormat resolves --json and --output; --json wins.
func OutputFormat() (output.Format, error) {
	if jsonOutput {
		return output.JSON, nil
	}
	f, err := output.ParseFormat(outputFormat)
	if err != nil {
		return "", fmt.Errorf("--output: %w", err)
	}
	return f, nil
}
