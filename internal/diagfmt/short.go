package diagfmt

import (
	"io"

	"liveweave/internal/diag"
	"liveweave/internal/source"
)

// Short prints one line per diagnostic: "<sev> <CODE> <path>:<line>:<col> <msg>".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, notes bool) error {
	out := diag.FormatGolden(bag.Items(), fs, notes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
