package driver

import (
	"time"

	"liveweave/internal/observ"
)

// Stage is a step of the workspace pipeline.
type Stage uint8

const (
	StageLoad Stage = iota
	StageParse
	StageRegister
	StageExpand
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageParse:
		return "parse"
	case StageRegister:
		return "register"
	case StageExpand:
		return "expand"
	}
	return "unknown"
}

// Status of one file in a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "working"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Event reports progress of one module. File is empty for pipeline-wide
// events such as the expand pass.
type Event struct {
	File   string
	Module string
	Stage  Stage
	Status Status
}

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during LoadWorkspace.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) mark(m observ.Mark) {
	if o == nil {
		return
	}
	ev := PhaseEvent{Name: m.Phase, Status: PhaseStart}
	if m.Done {
		ev.Status, ev.Elapsed = PhaseEnd, m.Elapsed
	}
	o(ev)
}

// emitter fans progress out to an optional channel. Sends never block past
// ctx cancellation.
type emitter struct {
	ch   chan<- Event
	done <-chan struct{}
}

func (e emitter) send(ev Event) {
	if e.ch == nil {
		return
	}
	select {
	case e.ch <- ev:
	case <-e.done:
	}
}
