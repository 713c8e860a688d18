package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var componentCmd = &cobra.Command{
	Use:   "component [flags] crate::module Path.To.Class [dir]",
	Short: "Build a component value through its registered deserializer",
	Long: `Component expands the workspace, looks up the class at the dotted path in
the given module and runs the deserializer bound to its component type in
live.toml. The result is printed as JSON.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runComponent,
}

func init() {
	componentCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short)")
	addWorkspaceFlags(componentCmd, false, false)
}

func runComponent(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "json" {
		return fmt.Errorf("component prints its value as JSON; use --format pretty or short for diagnostics")
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	wf, err := readWorkspaceFlags(cmd)
	if err != nil {
		return err
	}

	ws, err := loadWorkspace(cmd, workspaceDir(args[2:]), g, wf)
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd, ws.Bag, ws.FileSet, format, g, ws.Manifest.Root); err != nil {
		return err
	}

	reg := ws.Registry
	module, err := reg.Module(args[0])
	if err != nil {
		return err
	}
	value, err := reg.CreateComponent(module, args[1])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
