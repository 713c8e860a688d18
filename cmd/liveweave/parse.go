package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"liveweave/internal/diagfmt"
	"liveweave/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.live",
	Short: "Parse a live source file and print its raw document",
	Long: `Parse reads a single live source file and prints the flattened document
as a tree, before any cross-module resolution`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(filePath, g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := printDiagnostics(cmd, result.Bag, result.FileSet, format, g, filepath.Dir(filePath)); err != nil {
		return err
	}
	if result.Doc == nil {
		return errorCount(result.Bag)
	}
	if format != "json" {
		if err := diagfmt.FormatDocument(cmd.OutOrStdout(), result.Doc, result.Names); err != nil {
			return err
		}
	}
	return errorCount(result.Bag)
}
