package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"liveweave/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "liveweave",
	Short:        "Live document expansion toolkit",
	Long:         `liveweave parses, expands and resolves live documents across the modules of a workspace`,
	SilenceUsage: true,
}

// traceCleanup is set by the persistent pre-run hook and runs once Execute
// returns with its error. It flushes the tracer and stops profiling.
var traceCleanup = func(error) {}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(componentCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to keep")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson|chrome)")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		stopProfiles, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			stopProfiles()
			return err
		}
		traceCleanup = func(runErr error) {
			cleanup(runErr)
			stopProfiles()
			traceCleanup = func(error) {}
		}
		return nil
	}
}

func main() {
	rootCmd.Version = version.Version
	err := rootCmd.Execute()
	traceCleanup(err)
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
