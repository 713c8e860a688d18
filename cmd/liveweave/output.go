package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"liveweave/internal/diag"
	"liveweave/internal/diagfmt"
	"liveweave/internal/source"
)

type globalFlags struct {
	color          bool
	timings        bool
	maxDiagnostics int
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	pf := cmd.Root().PersistentFlags()
	colorFlag, err := pf.GetString("color")
	if err != nil {
		return globalFlags{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	timings, err := pf.GetBool("timings")
	if err != nil {
		return globalFlags{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return globalFlags{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	var useColor bool
	switch colorFlag {
	case "on":
		useColor = true
	case "off":
	case "auto":
		useColor = isTerminal(os.Stderr)
	default:
		return globalFlags{}, fmt.Errorf("unknown color mode %q (must be auto, on or off)", colorFlag)
	}
	return globalFlags{color: useColor, timings: timings, maxDiagnostics: maxDiagnostics}, nil
}

// printDiagnostics writes bag in the requested format. json goes to stdout so
// it can be piped; the human formats go to stderr.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, format string, g globalFlags, baseDir string) error {
	if format != "json" && bag.Len() == 0 && bag.Dropped() == 0 {
		return nil
	}
	switch format {
	case "pretty":
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
			Color:     g.color,
			Context:   1,
			PathMode:  diagfmt.PathModeAuto,
			BaseDir:   baseDir,
			ShowNotes: true,
		})
		return nil
	case "short":
		return diagfmt.Short(cmd.ErrOrStderr(), bag, fs, true)
	case "json":
		return diagfmt.JSON(cmd.OutOrStdout(), bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			BaseDir:          baseDir,
			IncludeNotes:     true,
		})
	default:
		return fmt.Errorf("unknown diagnostics format %q (must be pretty, short or json)", format)
	}
}

// errorCount is the exit signal of commands that report diagnostics.
func errorCount(bag *diag.Bag) error {
	n := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	if n == 1 {
		return fmt.Errorf("1 error")
	}
	return fmt.Errorf("%d errors", n)
}

func writeLine(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format+"\n", args...); err != nil {
		panic(err)
	}
}
