package trace

import (
	"io"
	"os"
	"sync"
)

// StreamTracer writes every event to w as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	wrote  bool  // an element of the chrome array is already out
	err    error // first write error; later events are dropped
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	st := &StreamTracer{w: w, level: level, format: format}
	if format == FormatChrome {
		st.put([]byte("{\"traceEvents\":[\n"))
	}
	return st
}

func (t *StreamTracer) put(b []byte) {
	if t.err == nil {
		_, t.err = t.w.Write(b)
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	t.write(ev)
}

func (t *StreamTracer) write(ev *Event) {
	data := FormatEvent(ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format == FormatChrome && t.wrote {
		t.put([]byte(",\n"))
	}
	t.wrote = true
	t.put(data)
}

// finish closes the chrome array.
func (t *StreamTracer) finish() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format == FormatChrome {
		t.put([]byte("\n]}\n"))
	}
	return t.err
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close terminates the output and closes w unless it is a standard stream.
func (t *StreamTracer) Close() error {
	if err := t.finish(); err != nil {
		return err
	}
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
