// Command chunkcrypt exposes the chunk-cryptography core as a CLI: identity
// derivation and generation, Merkle root/proof computation, and wire frame
// assembly/receipt.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chunkproto/chunkcrypt/config"
	"github.com/chunkproto/chunkcrypt/internal/logger"
)

var (
	configPath string
	verbose    bool

	appConfig *config.Config
	log       logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chunkcrypt",
	Short: "chunkcrypt - chunked-message cryptography core CLI",
	Long: `chunkcrypt provides tools for the chunk-cryptography core underlying
the chunked file/message transfer protocol: identity management, Merkle
inclusion proofs, and wire frame assembly and receipt.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			appConfig, err = config.Load(configPath)
		} else {
			appConfig = config.MustLoad()
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := logger.InfoLevel
		if verbose {
			level = logger.DebugLevel
		}
		l := logger.NewDefaultLogger()
		l.SetLevel(level)
		log = l
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: environment-based lookup)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	// Note: subcommands are registered in their own files:
	// - identity.go: identityCmd (derive, generate)
	// - merkle.go: merkleCmd (root, proof)
	// - frame.go: frameCmd (build, receive)
	// - metrics.go: serveMetricsCmd
}
