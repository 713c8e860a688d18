package project

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// SourceExt is the extension of live source files.
const SourceExt = ".live"

// SourceFile is a live file discovered in a crate.
type SourceFile struct {
	Path   string // абсолютный путь
	Crate  string
	Module string
}

// ModuleName приводит путь файла относительно корня крейта к имени модуля:
// "widgets/button.live" -> "widgets_button". Пустые сегменты, "." и ".."
// запрещены.
func ModuleName(rel string) (string, error) {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, SourceExt)
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return "", errors.New("invalid module path")
	}
	segs := strings.Split(rel, "/")
	for _, seg := range segs {
		if seg == "" || seg == "." || seg == ".." {
			return "", errors.New("invalid module path")
		}
	}
	name := strings.Join(segs, "_")
	if !IsValidModuleIdent(name) {
		return "", fmt.Errorf("module name %q is not an identifier", name)
	}
	return name, nil
}

// SourceFiles walks every crate root for *.live files, sorted by crate then path.
func (m *Manifest) SourceFiles() ([]SourceFile, error) {
	var out []SourceFile
	seen := make(map[string]string)
	for _, crate := range m.Crates() {
		err := filepath.WalkDir(crate.Dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != SourceExt {
				return nil
			}
			rel, err := filepath.Rel(crate.Dir, path)
			if err != nil {
				return err
			}
			mod, err := ModuleName(rel)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			key := crate.Name + "::" + mod
			if prev, dup := seen[key]; dup {
				return fmt.Errorf("module %s is provided by both %s and %s", key, prev, path)
			}
			seen[key] = path
			out = append(out, SourceFile{Path: path, Crate: crate.Name, Module: mod})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("crate %s: %w", crate.Name, err)
		}
	}
	slices.SortStableFunc(out, func(a, b SourceFile) int {
		if c := strings.Compare(a.Crate, b.Crate); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return out, nil
}

// ModuleID returns the "crate::module" form used by the registry.
func (f SourceFile) ModuleID() string { return f.Crate + "::" + f.Module }
