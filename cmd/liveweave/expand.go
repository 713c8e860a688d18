package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"liveweave/internal/diagfmt"
	"liveweave/internal/driver"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] [dir]",
	Short: "Expand every module of a workspace",
	Long: `Expand loads the workspace containing dir (default: current directory),
registers all modules, resolves imports and inheritance and reports diagnostics.
With --tree the expanded documents are printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	expandCmd.Flags().Bool("tree", false, "print the expanded document of each module")
	expandCmd.Flags().StringSlice("module", nil, "limit --tree to these modules (crate::module)")
	addWorkspaceFlags(expandCmd, true, true)
}

func runExpand(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	showTree, err := cmd.Flags().GetBool("tree")
	if err != nil {
		return fmt.Errorf("failed to get tree flag: %w", err)
	}
	only, err := cmd.Flags().GetStringSlice("module")
	if err != nil {
		return fmt.Errorf("failed to get module flag: %w", err)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	wf, err := readWorkspaceFlags(cmd)
	if err != nil {
		return err
	}

	ws, err := loadWorkspace(cmd, workspaceDir(args), g, wf)
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd, ws.Bag, ws.FileSet, format, g, ws.Manifest.Root); err != nil {
		return err
	}
	if showTree && format != "json" {
		if err := printTrees(cmd, ws, only); err != nil {
			return err
		}
	}
	return errorCount(ws.Bag)
}

func printTrees(cmd *cobra.Command, ws *driver.Workspace, only []string) error {
	want := make(map[string]bool, len(only))
	for _, m := range only {
		want[m] = true
	}
	names := ws.Snapshot.Interner()
	out := cmd.OutOrStdout()
	for _, m := range ws.Snapshot.Modules {
		if len(want) > 0 && !want[m.Module] {
			continue
		}
		writeLine(out, "%s (%s)", m.Module, m.Path)
		if m.Doc == nil {
			continue
		}
		if err := diagfmt.FormatDocument(out, m.Doc, names); err != nil {
			return err
		}
	}
	return nil
}
