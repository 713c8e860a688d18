package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"liveweave/internal/driver"
	"liveweave/internal/project"
	"liveweave/internal/trace"
	"liveweave/internal/ui"
)

type workspaceFlags struct {
	jobs   int
	cache  bool
	showUI bool
}

// addWorkspaceFlags registers --jobs and, when the command can work from a
// cached snapshot, --cache. withUI adds --ui.
func addWorkspaceFlags(cmd *cobra.Command, withCache, withUI bool) {
	cmd.Flags().Int("jobs", 0, "max parallel parse workers (0=auto)")
	if withCache {
		cmd.Flags().Bool("cache", false, "reuse expanded snapshots from the user cache directory")
	}
	if withUI {
		cmd.Flags().String("ui", "auto", "show a progress view (auto|on|off)")
	}
}

func readWorkspaceFlags(cmd *cobra.Command) (workspaceFlags, error) {
	var wf workspaceFlags
	var err error
	if wf.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return wf, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if cmd.Flags().Lookup("cache") != nil {
		if wf.cache, err = cmd.Flags().GetBool("cache"); err != nil {
			return wf, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if cmd.Flags().Lookup("ui") != nil {
		mode, err := cmd.Flags().GetString("ui")
		if err != nil {
			return wf, fmt.Errorf("failed to get ui flag: %w", err)
		}
		switch mode {
		case "on":
			wf.showUI = true
		case "off":
		case "auto":
			wf.showUI = isTerminal(os.Stdout)
		default:
			return wf, fmt.Errorf("unknown ui mode %q (must be auto, on or off)", mode)
		}
	}
	return wf, nil
}

func workspaceDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// loadWorkspace runs the driver pipeline, optionally behind the progress view.
func loadWorkspace(cmd *cobra.Command, dir string, g globalFlags, wf workspaceFlags) (*driver.Workspace, error) {
	ctx := cmd.Context()
	opts := driver.Options{
		Jobs:           wf.jobs,
		MaxDiagnostics: g.maxDiagnostics,
		Tracer:         trace.FromContext(ctx),
		Timings:        g.timings,
	}
	if wf.cache {
		cache, err := driver.OpenDiskCache("liveweave")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: workspace cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}
	if !wf.showUI {
		return driver.LoadWorkspace(ctx, dir, opts)
	}

	files, err := listSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	return runWithUI(ctx, "expanding "+dir, files, dir, opts)
}

func listSourceFiles(dir string) ([]string, error) {
	m, err := project.LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	files, err := m.SourceFiles()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Path, err)
	}
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out, nil
}

type workspaceOutcome struct {
	ws  *driver.Workspace
	err error
}

func runWithUI(ctx context.Context, title string, files []string, dir string, opts driver.Options) (*driver.Workspace, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan workspaceOutcome, 1)

	go func() {
		o := opts
		o.Events = events
		ws, err := driver.LoadWorkspace(ctx, dir, o)
		outcomeCh <- workspaceOutcome{ws: ws, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// вид мог закрыться раньше (ctrl-c): отпускаем отправителя событий
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.ws, uiErr
	}
	return outcome.ws, outcome.err
}
