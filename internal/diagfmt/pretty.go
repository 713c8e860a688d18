package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"liveweave/internal/diag"
	"liveweave/internal/source"
)

type palette struct {
	err, warn, info, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <sev> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		head := fmt.Sprintf("%s %s: %s",
			p.severity(d.Severity).Sprint(d.Severity.Label()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if !d.Located() || fs.Get(d.Primary.File) == nil {
			fmt.Fprintln(w, head)
		} else {
			fmt.Fprintf(w, "%s: %s\n", position(fs, d.Primary, opts.PathMode, opts.BaseDir), head)
			snippet(w, fs, d.Primary, opts.Context, p)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if d.Located() && fs.Get(n.Span.File) != nil && n.Span != (source.Span{}) {
				fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), position(fs, n.Span, opts.PathMode, opts.BaseDir), n.Msg)
				continue
			}
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "... %d more diagnostics not shown\n", dropped)
	}
}

func position(fs *source.FileSet, sp source.Span, mode PathMode, base string) string {
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, mode, base), start.Line, start.Col)
}

// snippet печатает строки вокруг span и подчёркивает первую строку span.
func snippet(w io.Writer, fs *source.FileSet, sp source.Span, around int8, p palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(around, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, uint32(len(f.LineIdx))+1) // #nosec G115 -- line count fits uint32
	width := len(fmt.Sprint(last))
	for n := first; n <= last; n++ {
		text := f.Line(n)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), expandTabs(text))
		if n != start.Line {
			continue
		}
		length := 1 // пустой span: одна каретка
		switch {
		case sp.Empty():
		case end.Line == start.Line && end.Col > start.Col:
			length = int(end.Col - start.Col)
		case end.Line > start.Line:
			length = max(1, len(text)-int(start.Col)+1)
		}
		pad := strings.Repeat(" ", int(start.Col-1))
		marks := "^" + strings.Repeat("~", length-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), pad, p.caret.Sprint(marks))
	}
}

func expandTabs(s string) string { return strings.ReplaceAll(s, "\t", " ") }
