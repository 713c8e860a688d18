// Package driver runs the workspace pipeline: it finds live.toml, loads every
// module of every crate, parses them in parallel, registers them in a fixed
// order, expands the registry and binds the scripted component factories.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"liveweave/internal/diag"
	"liveweave/internal/live"
	"liveweave/internal/observ"
	"liveweave/internal/parser"
	"liveweave/internal/project"
	"liveweave/internal/registry"
	"liveweave/internal/source"
	"liveweave/internal/trace"
)

// Options configures LoadWorkspace.
type Options struct {
	Jobs           int // parse workers; 0 means GOMAXPROCS
	MaxDiagnostics int
	Parser         parser.Options
	Tracer         trace.Tracer
	Cache          *DiskCache // nil disables the snapshot cache
	Timings        bool       // append an ObsTimings diagnostic
	Events         chan<- Event
	PhaseObserver  PhaseObserver
}

// Workspace is a loaded and expanded workspace. On a cache hit Registry is
// nil and only the snapshot is available.
type Workspace struct {
	Manifest *project.Manifest
	Files    []project.SourceFile
	FileSet  *source.FileSet
	Registry *registry.Registry
	Snapshot *registry.Snapshot
	Bag      *diag.Bag
	Digest   project.Digest
	CacheHit bool
	Timer    *observ.Timer
}

type loadedModule struct {
	File project.SourceFile
	ID   source.FileID
	Hash project.Digest
}

type parsed struct {
	doc *live.Document
	err error
}

// LoadWorkspace runs the full pipeline for the workspace containing dir.
// Errors are returned for an unusable manifest or a cancelled context;
// everything else ends up in Workspace.Bag.
func LoadWorkspace(ctx context.Context, dir string, opts Options) (*Workspace, error) {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	span := trace.Begin(tracer, trace.ScopeDriver, "load_workspace", 0).WithExtra("dir", dir)
	defer span.End("")

	ws := &Workspace{
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Timer:   observ.NewTimer(opts.PhaseObserver.mark),
	}
	out := emitter{ch: opts.Events, done: ctx.Done()}

	sw := ws.Timer.Start("manifest")
	m, err := project.LoadManifest(dir)
	if err != nil {
		sw.Stop("")
		return nil, err
	}
	ws.Manifest = m
	files, err := m.SourceFiles()
	sw.Stop(fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Path, err)
	}
	ws.Files = files

	sw = ws.Timer.Start("load")
	mods, complete := loadModules(ws, files, out)
	sw.Stop(fmt.Sprintf("%d modules", len(mods)))
	ws.Digest = workspaceDigest(m, mods, opts)

	if complete && opts.Cache != nil {
		sw = ws.Timer.Start("cache")
		cached, ok, err := opts.Cache.Get(ws.Digest)
		sw.Stop("")
		if err != nil {
			ws.Bag.Add(diag.New(diag.SevWarning, diag.IOLoadFileError, source.Span{}, "ignoring workspace cache: "+err.Error()))
		}
		if ok {
			trace.Point(tracer, trace.ScopeDriver, "cache_hit", ws.Digest.String())
			ws.Snapshot = cached.Snapshot
			ws.CacheHit = true
			for _, d := range cached.Diagnostics {
				ws.Bag.Add(d)
			}
			for _, mod := range mods {
				out.send(Event{File: mod.File.Path, Module: mod.File.ModuleID(), Stage: StageExpand, Status: StatusDone})
			}
			finish(ws, opts)
			return ws, nil
		}
	}

	sw = ws.Timer.Start("parse")
	names := live.NewInterner()
	results, err := parseModules(ctx, ws.FileSet, names, mods, opts, out)
	sw.Stop("")
	if err != nil {
		return nil, err
	}

	sw = ws.Timer.Start("register")
	reg := registry.New(names, ws.FileSet, registry.Options{
		Tracer:         tracer,
		Parser:         opts.Parser,
		MaxDiagnostics: opts.MaxDiagnostics,
	})
	ws.Registry = reg
	registered := registerModules(ws, mods, results, out)
	bindComponents(ws)
	sw.Stop(fmt.Sprintf("%d modules", registered))

	sw = ws.Timer.Start("expand")
	out.send(Event{Stage: StageExpand, Status: StatusWorking})
	ws.Bag.Merge(reg.ExpandAll())
	ws.Snapshot = reg.Snapshot()
	for _, mod := range mods {
		out.send(Event{File: mod.File.Path, Module: mod.File.ModuleID(), Stage: StageExpand, Status: StatusDone})
	}
	sw.Stop("")

	ws.Bag.Sort()
	ws.Bag.Dedup()
	if complete && opts.Cache != nil {
		sw = ws.Timer.Start("cache_store")
		err := opts.Cache.Put(ws.Digest, &CachedWorkspace{
			Snapshot:    ws.Snapshot,
			Diagnostics: ws.Bag.Items(),
			Modules:     moduleIDs(mods),
			Created:     time.Now().UTC(),
		})
		sw.Stop("")
		if err != nil {
			ws.Bag.Add(diag.New(diag.SevWarning, diag.IOLoadFileError, source.Span{}, "cannot store workspace cache: "+err.Error()))
		}
	}
	finish(ws, opts)
	return ws, nil
}

func finish(ws *Workspace, opts Options) {
	if !opts.Timings {
		return
	}
	r := ws.Timer.Report()
	appendTimingDiagnostic(ws.Bag, timingPayload{
		Path:    ws.Manifest.Root,
		Cached:  ws.CacheHit,
		TotalMS: r.TotalMS,
		Phases:  r.Phases,
	})
}

// loadModules reads files sequentially so FileIDs follow the sorted order.
// complete is false when any file failed to load.
func loadModules(ws *Workspace, files []project.SourceFile, out emitter) ([]loadedModule, bool) {
	mods := make([]loadedModule, 0, len(files))
	complete := true
	for _, f := range files {
		out.send(Event{File: f.Path, Module: f.ModuleID(), Stage: StageLoad, Status: StatusWorking})
		id, err := ws.FileSet.Load(f.Path)
		if err != nil {
			complete = false
			ws.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
			out.send(Event{File: f.Path, Module: f.ModuleID(), Stage: StageLoad, Status: StatusError})
			continue
		}
		mods = append(mods, loadedModule{File: f, ID: id, Hash: ws.FileSet.Get(id).Hash})
		out.send(Event{File: f.Path, Module: f.ModuleID(), Stage: StageParse, Status: StatusQueued})
	}
	return mods, complete
}

// parseModules parses in parallel into a shared interner. Results are
// indexed like mods.
func parseModules(ctx context.Context, fset *source.FileSet, names *source.Interner, mods []loadedModule, opts Options, out emitter) ([]parsed, error) {
	results := make([]parsed, len(mods))
	if len(mods) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	popts := opts.Parser
	popts.Reporter = nil

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(mods)))
	for i, mod := range mods {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out.send(Event{File: mod.File.Path, Module: mod.File.ModuleID(), Stage: StageParse, Status: StatusWorking})
			doc, err := parser.Parse(fset.Get(mod.ID), names, popts)
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = parsed{doc: doc, err: err}
			st := StatusDone
			if err != nil {
				st = StatusError
			}
			out.send(Event{File: mod.File.Path, Module: mod.File.ModuleID(), Stage: StageParse, Status: st})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// registerModules feeds parsed documents to the registry in load order and
// returns how many were accepted.
func registerModules(ws *Workspace, mods []loadedModule, results []parsed, out emitter) int {
	reg := ws.Registry
	n := 0
	for i, mod := range mods {
		ev := Event{File: mod.File.Path, Module: mod.File.ModuleID(), Stage: StageRegister, Status: StatusError}
		fileStart := source.Span{File: mod.ID}
		if err := results[i].err; err != nil {
			var perr *parser.Error
			if errors.As(err, &perr) {
				for _, d := range perr.Diagnostics {
					ws.Bag.Add(d)
				}
			}
			ws.Bag.Add(diag.NewError(diag.ProjParseFailed, fileStart,
				fmt.Sprintf("module %s failed to parse and was not registered", mod.File.ModuleID())))
			out.send(ev)
			continue
		}
		cm, err := reg.Module(mod.File.ModuleID())
		if err == nil {
			_, err = reg.RegisterDocument(mod.File.Path, cm, mod.ID, results[i].doc)
		}
		if err != nil {
			ws.Bag.Add(diag.NewError(diag.ProjDuplicateModule, fileStart, err.Error()))
			out.send(ev)
			continue
		}
		n++
		ev.Status = StatusDone
		out.send(ev)
	}
	return n
}

func moduleIDs(mods []loadedModule) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.File.ModuleID()
	}
	return out
}
