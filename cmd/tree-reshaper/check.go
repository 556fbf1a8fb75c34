package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"tree-reshaper/internal/schema"
)

var dumpSchema bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a schema without converting anything",
	Long: `Compiles the schema given by --schema and reports every problem found,
warnings included. With --dump the compiled program is printed.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	file, mode, err := loadSchema()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	compiled, diags := schema.Check(file.Raw, mode, cfg.Delimiters)

	for _, d := range slices.Concat(diags.Warnings, diags.Errors) {
		fmt.Fprintf(out, "%s: %s\n", d.Severity, d)

		for _, s := range d.Suggestions {
			fmt.Fprintf(out, "  did you mean %q?\n", s)
		}
	}

	if diags.HasErrors() {
		return fmt.Errorf("%s: %d error(s) found", schemaPath, len(diags.Errors))
	}

	if dumpSchema {
		fmt.Fprint(out, schema.Dump(compiled, cfg.Delimiters))
		return nil
	}

	fmt.Fprintf(out, "%s: OK (%s, %d entries)\n", schemaPath, mode, len(compiled.Entries))

	return nil
}
