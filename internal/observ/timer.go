// Package observ measures pipeline phases: manifest load, parse, register,
// expand and snapshot export.
package observ

import (
	"sync"
	"time"
)

// Mark is passed to the watch hook when a phase starts and when it stops.
type Mark struct {
	Phase   string
	Done    bool
	Elapsed time.Duration // zero on start
}

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
}

// Timer records phases in the order they were started. A nil *Timer is
// valid and records nothing.
type Timer struct {
	mu     sync.Mutex
	phases []phase
	watch  func(Mark)
}

// NewTimer returns a timer; watch may be nil.
func NewTimer(watch func(Mark)) *Timer {
	return &Timer{phases: make([]phase, 0, 8), watch: watch}
}

// Stopwatch ends the phase it was returned for.
type Stopwatch struct {
	t   *Timer
	idx int
}

// Start opens a phase.
func (t *Timer) Start(name string) Stopwatch {
	if t == nil {
		return Stopwatch{idx: -1}
	}
	t.mu.Lock()
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	idx := len(t.phases) - 1
	t.mu.Unlock()
	if t.watch != nil {
		t.watch(Mark{Phase: name})
	}
	return Stopwatch{t: t, idx: idx}
}

// Stop closes the phase with an optional note and returns its duration.
// Only the first call counts.
func (s Stopwatch) Stop(note string) time.Duration {
	if s.t == nil || s.idx < 0 {
		return 0
	}
	s.t.mu.Lock()
	p := &s.t.phases[s.idx]
	if p.dur != 0 {
		s.t.mu.Unlock()
		return p.dur
	}
	p.dur = max(time.Since(p.start), 1)
	p.note = note
	m := Mark{Phase: p.name, Done: true, Elapsed: p.dur}
	s.t.mu.Unlock()
	if s.t.watch != nil {
		s.t.watch(m)
	}
	return m.Elapsed
}

// PhaseReport - сжатая запись фазы для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report - агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report copies the phases. Total is the sum of durations, not wall clock;
// phases still running count as zero.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note})
	}
	r.TotalMS = millis(total)
	return r
}

func millis(d time.Duration) float64 { return d.Seconds() * 1000 }
