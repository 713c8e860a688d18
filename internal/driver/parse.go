package driver

import (
	"errors"

	"liveweave/internal/diag"
	"liveweave/internal/live"
	"liveweave/internal/parser"
	"liveweave/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Names   *source.Interner
	Doc     *live.Document // nil when the file has syntax errors
	Bag     *diag.Bag
}

// Parse parses one file into a raw document without registering it.
func Parse(filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	names := live.NewInterner()
	doc, err := parser.Parse(file, names, parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: maxDiagnostics,
	})
	if err != nil && !errors.Is(err, parser.ErrParse) {
		return nil, err
	}
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Names:   names,
		Doc:     doc,
		Bag:     bag,
	}, nil
}
