// Package main provides the CLI entrypoint for tree-reshaper.
//
// tree-reshaper converts JSON or YAML documents with declarative schemas:
//
//	tree-reshaper convert --schema users.yaml input.json
//	tree-reshaper check --schema users.yaml --dump
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tree-reshaper/reshape"
)

const defaultConfigFile = "tree-reshaper.yaml"

var (
	// Global flags
	verbose    bool
	configPath string

	// Schema flags shared by convert and check
	schemaPath string
	modeName   string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tree-reshaper",
	Short: "Reshape, select or prune JSON-like documents with key-path schemas",
	Long: `tree-reshaper rewrites JSON or YAML documents according to a schema of
key paths.

A reshape schema maps input paths to output paths ("users.$id.name: byId.$id").
Select and prune schemas list paths to keep or to drop.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error

		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigFile, "Engine configuration file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "Schema file (required)")
	rootCmd.PersistentFlags().StringVarP(&modeName, "mode", "m", "", "Override the schema mode: reshape, select or prune")

	convertCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")

	checkCmd.Flags().BoolVar(&dumpSchema, "dump", false, "Print the compiled schema")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the engine configuration. A missing file leaves the
// defaults and environment overrides in place.
func loadConfig() (*reshape.Config, error) {
	cfg, err := reshape.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	cfg.Logger = logger

	return cfg, nil
}

// loadSchema reads --schema and resolves the mode, --mode taking precedence
// over the file.
func loadSchema() (*reshape.SchemaFile, reshape.Mode, error) {
	if schemaPath == "" {
		return nil, 0, fmt.Errorf("--schema is required")
	}

	file, err := reshape.LoadSchema(schemaPath)
	if err != nil {
		return nil, 0, err
	}

	name := file.Mode
	if modeName != "" {
		name = modeName
	}

	mode, err := reshape.ParseMode(name)
	if err != nil {
		return nil, 0, err
	}

	logger.Debug("Schema loaded",
		zap.String("path", schemaPath),
		zap.Stringer("mode", mode),
		zap.Int("entries", len(file.Entries)))

	return file, mode, nil
}
