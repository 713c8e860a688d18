package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Module is one row of the modules table.
type Module struct {
	ID   int64
	Name string // crate::module
	Path string
}

// Loc addresses a node by module name and (level, index).
type Loc struct {
	Module string
	Level  int64
	Index  int64
}

func (l Loc) String() string { return fmt.Sprintf("%s@%d:%d", l.Module, l.Level, l.Index) }

// Node is one row of the nodes table. Ref is set for resolved references,
// class bases and call targets.
type Node struct {
	Loc
	Name  string
	Kind  string
	Value string
	Ref   *Loc
}

const nodeColumns = `m.name, n.level, n.idx, COALESCE(n.name, ''), n.kind, COALESCE(n.value, ''),
	rm.name, n.ref_level, n.ref_idx`

const nodeFrom = `FROM nodes n
	JOIN modules m ON m.id = n.module_id
	LEFT JOIN modules rm ON rm.id = n.ref_module_id`

func scanNode(sc interface{ Scan(...any) error }) (Node, error) {
	var (
		n      Node
		refMod sql.NullString
		refLvl sql.NullInt64
		refIdx sql.NullInt64
	)
	if err := sc.Scan(&n.Module, &n.Level, &n.Index, &n.Name, &n.Kind, &n.Value, &refMod, &refLvl, &refIdx); err != nil {
		return Node{}, err
	}
	if refMod.Valid {
		n.Ref = &Loc{Module: refMod.String, Level: refLvl.Int64, Index: refIdx.Int64}
	}
	return n, nil
}

func (ix *Index) queryNodes(query string, args ...any) ([]Node, error) {
	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Modules lists every module ordered by id.
func (ix *Index) Modules() ([]Module, error) {
	rows, err := ix.db.Query("SELECT id, name, path FROM modules ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}
	defer rows.Close()
	var out []Module
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.Name, &m.Path); err != nil {
			return nil, fmt.Errorf("modules: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Lookup resolves a dotted path ("Button.label") inside module. When a
// scope holds several nodes with the same name the last one wins, matching
// how the expanded tree is read.
func (ix *Index) Lookup(module, path string) (Node, error) {
	segs := strings.Split(path, ".")
	var cur *Node
	for _, seg := range segs {
		var row *sql.Row
		if cur == nil {
			row = ix.db.QueryRow(`SELECT `+nodeColumns+` `+nodeFrom+`
				WHERE m.name = ? AND n.level = 0 AND n.name = ?
				ORDER BY n.idx DESC LIMIT 1`, module, seg)
		} else {
			row = ix.db.QueryRow(`SELECT `+nodeColumns+` `+nodeFrom+`
				WHERE m.name = ? AND n.parent_level = ? AND n.parent_idx = ? AND n.name = ?
				ORDER BY n.idx DESC LIMIT 1`, module, cur.Level, cur.Index, seg)
		}
		n, err := scanNode(row)
		if errors.Is(err, sql.ErrNoRows) {
			return Node{}, fmt.Errorf("%s in %s: %w", path, module, ErrNotFound)
		}
		if err != nil {
			return Node{}, fmt.Errorf("lookup %s: %w", path, err)
		}
		cur = &n
	}
	return *cur, nil
}

// Children returns the direct children of at in order.
func (ix *Index) Children(at Loc) ([]Node, error) {
	out, err := ix.queryNodes(`SELECT `+nodeColumns+` `+nodeFrom+`
		WHERE m.name = ? AND n.parent_level = ? AND n.parent_idx = ?
		ORDER BY n.idx`, at.Module, at.Level, at.Index)
	if err != nil {
		return nil, fmt.Errorf("children of %s: %w", at, err)
	}
	return out, nil
}

// References returns every node whose reference points at target: values
// resolved to it, classes inheriting from it and calls targeting it.
func (ix *Index) References(target Loc) ([]Node, error) {
	out, err := ix.queryNodes(`SELECT `+nodeColumns+` `+nodeFrom+`
		WHERE rm.name = ? AND n.ref_level = ? AND n.ref_idx = ?
		ORDER BY n.module_id, n.level, n.idx`, target.Module, target.Level, target.Index)
	if err != nil {
		return nil, fmt.Errorf("references to %s: %w", target, err)
	}
	return out, nil
}

// Importers lists the modules that import module, by name.
func (ix *Index) Importers(module string) ([]string, error) {
	rows, err := ix.db.Query(`SELECT DISTINCT m.name FROM imports i
		JOIN modules m ON m.id = i.module_id
		WHERE i.imported = ? ORDER BY m.name`, module)
	if err != nil {
		return nil, fmt.Errorf("importers of %s: %w", module, err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
