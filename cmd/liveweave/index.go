package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"liveweave/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index [flags] [dir]",
	Short: "Export the expanded workspace into a SQLite database",
	Long: `Index expands the workspace and writes every module, node and import into
a SQLite database (default: .liveweave/index.db under the workspace root).
--refs and --importers query the freshly written index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("db", "", "database path (default <root>/.liveweave/index.db)")
	indexCmd.Flags().String("refs", "", "list references to crate::module:Path.To.Node")
	indexCmd.Flags().String("importers", "", "list modules importing crate::module")
	addWorkspaceFlags(indexCmd, true, false)
}

func runIndex(cmd *cobra.Command, args []string) error {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return fmt.Errorf("failed to get db flag: %w", err)
	}
	refs, err := cmd.Flags().GetString("refs")
	if err != nil {
		return fmt.Errorf("failed to get refs flag: %w", err)
	}
	importers, err := cmd.Flags().GetString("importers")
	if err != nil {
		return fmt.Errorf("failed to get importers flag: %w", err)
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
	if err := printDiagnostics(cmd, ws.Bag, ws.FileSet, "pretty", g, ws.Manifest.Root); err != nil {
		return err
	}

	if dbPath == "" {
		dbPath = filepath.Join(ws.Manifest.Root, ".liveweave", "index.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	ix, err := index.Open(dbPath)
	if err != nil {
		return err
	}
	defer ix.Close() //nolint:errcheck
	if err := ix.Migrate(); err != nil {
		return err
	}
	if err := ix.Export(ws.Snapshot); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	out := cmd.OutOrStdout()
	mods, err := ix.Modules()
	if err != nil {
		return err
	}
	writeLine(out, "indexed %d modules into %s", len(mods), dbPath)

	if refs != "" {
		module, path, ok := splitNodeRef(refs)
		if !ok {
			return fmt.Errorf("--refs wants crate::module:Path, got %q", refs)
		}
		target, err := ix.Lookup(module, path)
		if err != nil {
			return err
		}
		nodes, err := ix.References(target.Loc)
		if err != nil {
			return err
		}
		writeLine(out, "%d references to %s %s", len(nodes), module, path)
		for _, n := range nodes {
			writeLine(out, "  %s %s: %s %s", n.Loc, n.Name, n.Kind, n.Value)
		}
	}
	if importers != "" {
		names, err := ix.Importers(importers)
		if err != nil {
			return err
		}
		writeLine(out, "%d modules import %s", len(names), importers)
		for _, name := range names {
			writeLine(out, "  %s", name)
		}
	}
	return nil
}

// splitNodeRef splits "crate::module:Path.To.Node" at its last single colon.
func splitNodeRef(s string) (module, path string, ok bool) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || s[i-1] == ':' || i == len(s)-1 {
		return "", "", false
	}
	module, path = s[:i], s[i+1:]
	return module, path, strings.Contains(module, "::")
}
