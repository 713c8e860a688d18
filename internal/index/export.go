package index

import (
	"database/sql"
	"fmt"

	"liveweave/internal/live"
	"liveweave/internal/registry"
	"liveweave/internal/source"
)

// Export replaces the contents of the index with snap in one transaction.
// Module ids are the snapshot's file indexes, so node pointers map directly
// onto (ref_module_id, ref_level, ref_idx).
func (ix *Index) Export(snap *registry.Snapshot) (err error) {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback() //nolint:errcheck
		}
	}()

	for _, table := range []string{"imports", "nodes", "modules"} {
		if _, err = tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	w, err := newWriter(tx, snap.Interner())
	if err != nil {
		return err
	}
	defer w.close()

	for fi, m := range snap.Modules {
		if _, err = w.module.Exec(fi, m.Module, m.Path); err != nil {
			return fmt.Errorf("insert module %s: %w", m.Module, err)
		}
		for _, imp := range m.Imports {
			if _, err = w.uses.Exec(fi, imp); err != nil {
				return fmt.Errorf("insert import %s: %w", imp, err)
			}
		}
		if m.Doc == nil || len(m.Doc.Nodes) == 0 {
			continue
		}
		for i, n := range m.Doc.Nodes[0] {
			if err = w.node(fi, m.Doc, 0, uint32(i), n, nil); err != nil { // #nosec G115 -- bounded by document size
				return fmt.Errorf("module %s: %w", m.Module, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type writer struct {
	names  *source.Interner
	module *sql.Stmt
	nodes  *sql.Stmt
	uses   *sql.Stmt
}

func newWriter(tx *sql.Tx, names *source.Interner) (*writer, error) {
	w := &writer{names: names}
	var err error
	if w.module, err = tx.Prepare("INSERT INTO modules (id, name, path) VALUES (?, ?, ?)"); err != nil {
		return nil, fmt.Errorf("prepare modules: %w", err)
	}
	if w.nodes, err = tx.Prepare(`INSERT INTO nodes (module_id, level, idx, parent_level, parent_idx,
			name, kind, value, ref_module_id, ref_level, ref_idx)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`); err != nil {
		w.close()
		return nil, fmt.Errorf("prepare nodes: %w", err)
	}
	if w.uses, err = tx.Prepare("INSERT INTO imports (module_id, imported) VALUES (?, ?)"); err != nil {
		w.close()
		return nil, fmt.Errorf("prepare imports: %w", err)
	}
	return w, nil
}

func (w *writer) close() {
	for _, st := range []*sql.Stmt{w.module, w.nodes, w.uses} {
		if st != nil {
			st.Close() //nolint:errcheck
		}
	}
}

// node writes n and, depth first, its children.
func (w *writer) node(fi int, doc *live.Document, level int, idx uint32, n live.Node, parent *live.LocalPtr) error {
	var pLevel, pIdx, refFile, refLevel, refIdx sql.NullInt64
	if parent != nil {
		pLevel = sql.NullInt64{Int64: int64(parent.Level), Valid: true}
		pIdx = sql.NullInt64{Int64: int64(parent.Index), Valid: true}
	}
	if n.Value.Ref.IsPtr() {
		p := n.Value.Ref.Ptr
		refFile = sql.NullInt64{Int64: int64(p.File), Valid: true}
		refLevel = sql.NullInt64{Int64: int64(p.Level), Valid: true}
		refIdx = sql.NullInt64{Int64: int64(p.Index), Valid: true}
	}
	var name sql.NullString
	if !n.ID.IsEmpty() {
		name = sql.NullString{String: n.ID.Format(w.names, doc.MultiIDs), Valid: true}
	}
	var value sql.NullString
	if text := doc.FormatValue(w.names, n.Value); text != "" {
		value = sql.NullString{String: text, Valid: true}
	}

	if _, err := w.nodes.Exec(fi, level, idx, pLevel, pIdx, name, n.Value.Kind.String(), value, refFile, refLevel, refIdx); err != nil {
		return fmt.Errorf("insert node %d:%d: %w", level, idx, err)
	}
	self := live.LocalPtr{Level: uint32(level), Index: idx} // #nosec G115 -- bounded by document depth
	start := n.Value.Start
	for i, c := range doc.Children(level, n) {
		if err := w.node(fi, doc, level+1, start+uint32(i), c, &self); err != nil { // #nosec G115 -- bounded by document size
			return err
		}
	}
	return nil
}
