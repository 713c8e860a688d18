package fuzztests

import (
	"testing"

	"liveweave/internal/diag"
	"liveweave/internal/lexer"
	"liveweave/internal/source"
	"liveweave/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.live", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		withTimeout(t, "lexer", input, func() {
			for lx.Next().Kind != token.EOF {
			}
		})
	})
}
