package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"liveweave/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGolden renders diagnostics one per line as
// "<severity> <code> <path>:<line>:<col> <message>", sorted deterministically.
// Used by golden tests and the short CLI format.
func FormatGolden(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for _, d := range diags {
		rendered = append(rendered, golden(fs, d.Severity.Label(), d.Code, d.Primary, d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			rendered = append(rendered, golden(fs, "note", d.Code, n.Span, n.Msg))
		}
	}

	slices.SortStableFunc(rendered, func(a, b goldenDiagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Severity, b.Severity),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Message, b.Message),
		)
	})

	var b strings.Builder
	for i, d := range rendered {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
	}
	return b.String()
}

func golden(fs *source.FileSet, sev string, code Code, sp source.Span, msg string) goldenDiagnostic {
	g := goldenDiagnostic{Severity: sev, Code: code.ID(), Message: sanitizeMessage(msg)}
	if f := fs.Get(sp.File); f != nil {
		start, _ := fs.Resolve(sp)
		g.Path = strings.TrimPrefix(f.Path, "./")
		g.Line, g.Column = start.Line, start.Col
	}
	return g
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
