// Package commands defines all Cobra CLI commands for the voyago binary.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/voyago/voyago-go/internal/audit"
	"github.com/voyago/voyago-go/internal/config"
	"github.com/voyago/voyago-go/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "voyago",
		Short: "Voyago is a retrieval-augmented travel assistant",
		Long: `Voyago answers travel questions, builds travel plans, and summarises
destinations from a local knowledge base of travel documents.

Documents are embedded into a vector store (in-memory by default, Qdrant when
QDRANT_HOST is set) and retrieved as context for answer generation. Without a
configured model provider (MODEL_PROVIDER unset) voyago runs with a
deterministic offline generator, so ingestion and retrieval work end to end
without any API keys.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.voyago/config.yaml).
See 'voyago --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A .env in the working directory is a convenience for local
			// development; absence is not an error.
			_ = godotenv.Load()

			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.voyago/config.yaml)")

	root.AddCommand(
		NewAskCmd(),
		NewPlanCmd(),
		NewDestinationCmd(),
		NewSearchCmd(),
		NewIngestCmd(),
		NewStatsCmd(),
		NewHistoryCmd(),
		NewClearCmd(),
		NewServeCmd(),
		NewVersionCmd(),
	)

	return root
}
