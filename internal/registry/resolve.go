package registry

import (
	"errors"
	"fmt"

	"liveweave/internal/diag"
	"liveweave/internal/live"
)

// resolveError is a failed resolution with the diagnostic code to report.
type resolveError struct {
	code diag.Code
	msg  string
}

func (e *resolveError) Error() string { return e.msg }

func (e *expander) fail(code diag.Code, format string, args ...any) error {
	return &resolveError{code: code, msg: fmt.Sprintf(format, args...)}
}

// resolve turns id into a pointer. Self paths walk the output body being
// built at outLevel from outStart; other roots come from the scope stack.
func (e *expander) resolve(id live.Id, outLevel, outStart int) (live.NodePtr, error) {
	switch id.Kind {
	case live.IdPtr:
		return id.Ptr, nil
	case live.IdSingle:
		t, ok := e.scopes.lookup(id.Name)
		if !ok {
			return live.NodePtr{}, e.fail(diag.SemItemNotOnScope, "cannot find item %s on scope", e.format(id))
		}
		_, fi, ok := e.target(t)
		if !ok {
			return live.NodePtr{}, e.fail(diag.SemItemNotOnScope, "cannot find item %s on scope", e.format(id))
		}
		return t.Ptr.In(fi), nil
	case live.IdMulti:
		return e.resolvePath(id, outLevel, outStart)
	}
	return live.NodePtr{}, e.fail(diag.SemItemNotOnScope, "cannot resolve an empty identifier")
}

func (e *expander) resolvePath(id live.Id, outLevel, outStart int) (live.NodePtr, error) {
	segs := e.out.Segments(id)
	if len(segs) < 2 {
		return live.NodePtr{}, e.fail(diag.SemPathNotFound, "path %s not found", e.format(id))
	}
	root := segs[0]
	switch {
	case root.Is(live.NameSelf):
		p, err := e.out.ScanPath(outLevel, outStart, e.out.LevelLen(outLevel)-outStart, segs[1:])
		if err != nil {
			return live.NodePtr{}, e.fail(diag.SemSelfPathNotFound, "cannot find %s in Self", e.format(id))
		}
		return p.In(e.file), nil
	case root.IsSingle() && live.IsPrimitiveBase(root.Name):
		return live.NodePtr{}, e.fail(diag.SemPrimitiveBaseAsRoot, "cannot use primitive base %s as path root in %s", e.format(root), e.format(id))
	}

	t, ok := e.scopes.lookup(root.Name)
	if !ok {
		return live.NodePtr{}, e.fail(diag.SemPathNotFound, "path %s not found: %s is not on scope", e.format(id), e.format(root))
	}
	doc, fi, ok := e.target(t)
	if !ok {
		return live.NodePtr{}, e.fail(diag.SemPathNotFound, "path %s not found", e.format(id))
	}
	n, ok := doc.At(t.Ptr)
	if !ok {
		return live.NodePtr{}, e.fail(diag.SemPathNotFound, "path %s not found", e.format(id))
	}
	if n.Value.Kind != live.ValClass {
		return live.NodePtr{}, e.fail(diag.SemPropertyNotClass, "property %s of %s is not a class", e.format(root), e.format(id))
	}
	p, err := doc.ScanPath(int(t.Ptr.Level)+1, int(n.Value.Start), int(n.Value.Count), segs[1:])
	switch {
	case errors.Is(err, live.ErrNotClass):
		return live.NodePtr{}, e.fail(diag.SemPropertyNotClass, "property in %s is not a class", e.format(id))
	case err != nil:
		return live.NodePtr{}, e.fail(diag.SemPathNotFound, "path %s not found", e.format(id))
	}
	return p.In(fi), nil
}

// target returns the document and file a scope binding points into.
func (e *expander) target(t live.ScopeTarget) (*live.Document, live.FileIndex, bool) {
	if t.Kind == live.TargetLocal {
		return e.out, e.file, true
	}
	fi, ok := e.r.byModule[t.Module]
	if !ok {
		return nil, 0, false
	}
	if fi == e.file {
		return e.out, e.file, true
	}
	return e.r.expanded[fi], fi, true
}

// source returns the document ptr indexes and the module that owns it.
func (e *expander) source(ptr live.NodePtr) (*live.Document, live.CrateModule) {
	if ptr.File == e.file {
		return e.out, e.module
	}
	return e.r.expanded[ptr.File], e.r.files[ptr.File].Module
}

func (e *expander) nodeAt(ptr live.NodePtr) live.Node {
	doc, _ := e.source(ptr)
	n, _ := doc.At(ptr.Local())
	return n
}

func (e *expander) format(id live.Id) string {
	return id.Format(e.r.names, e.out.MultiIDs)
}

func (e *expander) report(tok live.TokenID, err error) {
	var re *resolveError
	if errors.As(err, &re) {
		e.errorf(tok, re.code, "%s", re.msg)
		return
	}
	e.errorf(tok, diag.SemPathNotFound, "%v", err)
}

func (e *expander) errorf(tok live.TokenID, code diag.Code, format string, args ...any) {
	sp, _ := e.r.TokenSpan(tok)
	diag.ReportError(e.rep, code, sp, fmt.Sprintf(format, args...)).Emit()
}
