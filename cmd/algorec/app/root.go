// Package app provides the algorec command-line application.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "algorec",
	DisableAutoGenTag: true,
	Short:             "Algorithm corpus index and recommendation service",
	Long: `algorec indexes algorithm metadata from source collections into a
vector corpus, serves ranked recommendations with rationales over an
agent-facing HTTP API, and curates instruction-tuning examples from the
live corpus.

Configuration is environment driven; see the package documentation for
the QDRANT_*, EMBEDDING_*, INGEST_*, ENGINE_*, CURATOR_* and BRIDGE_*
variables.`,
}

// NewRootCmd creates the root command for the algorec CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(curateCmd)
	rootCmd.AddCommand(versionCmd)
	return rootCmd
}
