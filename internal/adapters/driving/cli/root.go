// Package cli implements the coursechat command line interface.
// Commands are thin adapters: they parse flags, call driving ports and
// print results. Service construction happens in cmd/coursechat.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursechat/internal/core/ports/driven"
	"github.com/custodia-labs/coursechat/internal/core/ports/driving"
	"github.com/custodia-labs/coursechat/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Package-level services injected by SetServices before Execute.
// Commands check for nil and fail with a configuration message, so a
// partially configured install can still run config and version.
var (
	assistantService driving.AssistantService
	searchService    driving.SearchService
	catalogService   driving.CourseCatalog
	ingestService    driving.IngestService
	configStore      driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "coursechat",
	Short: "Chat with your course materials",
	Long: `Coursechat indexes course script documents and answers questions
about them using retrieval-augmented generation.

Ingest a directory of course scripts, then ask questions:

  coursechat ingest ./docs
  coursechat ask "What is covered in lesson 5 of the MCP course?"`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services bundles everything the CLI needs.
type Services struct {
	Assistant driving.AssistantService
	Search    driving.SearchService
	Catalog   driving.CourseCatalog
	Ingest    driving.IngestService
	Config    driven.ConfigStore
}

// SetServices injects the service implementations used by all commands.
func SetServices(s Services) {
	assistantService = s.Assistant
	searchService = s.Search
	catalogService = s.Catalog
	ingestService = s.Ingest
	configStore = s.Config
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
