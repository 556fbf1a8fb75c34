package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tree-reshaper/internal/common"
	"tree-reshaper/reshape"
	"tree-reshaper/tree"
)

var outputFormat string

var convertCmd = &cobra.Command{
	Use:   "convert [input [output]]",
	Short: "Convert a document with a schema",
	Long: `Reads a JSON or YAML document, converts it with the schema given by
--schema and writes the result. Input defaults to stdin ("-" also means
stdin), output to stdout.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	format := tree.Format(outputFormat)
	if format != tree.FormatJSON && format != tree.FormatYAML {
		return fmt.Errorf("unknown output format %q, expected json or yaml", outputFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	file, mode, err := loadSchema()
	if err != nil {
		return err
	}

	inputPath, outputPath := common.Unpack2(args)

	data, err := readInput(cmd, inputPath)
	if err != nil {
		return err
	}

	input, err := tree.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}

	out, err := reshape.NewEngine(cfg).Convert(file.Raw, mode, input)
	if err != nil {
		return err
	}

	encoded, err := tree.Encode(out, format)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if format == tree.FormatJSON {
		encoded = append(encoded, '\n')
	}

	logger.Debug("Document converted",
		zap.Stringer("mode", mode),
		zap.Int("input_bytes", len(data)),
		zap.Int("output_bytes", len(encoded)))

	if outputPath == "" || outputPath == "-" {
		_, err = cmd.OutOrStdout().Write(encoded)
		return err
	}

	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return data, nil
}
