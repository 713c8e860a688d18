package fuzztests

import (
	"testing"
	"time"

	"liveweave/internal/diag"
	"liveweave/internal/live"
	"liveweave/internal/parser"
	"liveweave/internal/registry"
	"liveweave/internal/source"
	"liveweave/internal/testkit"
)

// stepTimeout bounds parsing or expanding a single input. Exceeding it means
// a loop in error recovery or in the dependency walk.
const stepTimeout = 5 * time.Second

// withTimeout runs fn on its own goroutine, so fn must not call t.Fatal.
func withTimeout(t *testing.T, what string, input []byte, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(stepTimeout):
		t.Fatalf("%s hung on %d-byte input: %q", what, len(input), input[:min(len(input), 200)])
	}
}

func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	// незакрытые конструкции
	f.Add([]byte("A: { b: [1, 2"))
	f.Add([]byte("A: Component { fn f() { { { }"))
	f.Add([]byte("use crate::"))
	f.Add([]byte("A: B.C.D.E.F.G { x.y.z: 1 }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		withTimeout(t, "parser", input, func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.live", input))
			bag := diag.NewBag(128)
			doc, err := parser.Parse(file, live.NewInterner(), parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
			if err != nil {
				return
			}
			if ierr := testkit.CheckDocument(doc); ierr != nil {
				t.Errorf("document invariants: %v", ierr)
			}
			if ierr := testkit.CheckTokens(doc, file); ierr != nil {
				t.Errorf("token invariants: %v", ierr)
			}
		})
	})
}

// FuzzRegistryExpand registers the input twice, once importing the other,
// and checks that expansion terminates.
func FuzzRegistryExpand(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		withTimeout(t, "expand", input, func() {
			r := registry.New(nil, nil, registry.Options{MaxDiagnostics: 64})
			for _, name := range []string{"app::a", "app::b"} {
				cm, err := r.Module(name)
				if err != nil {
					t.Error(err)
					return
				}
				src := input
				if name == "app::b" {
					src = append([]byte("use crate::a::*\n"), input...)
				}
				if _, err := r.Register(name+".live", cm, src); err != nil {
					return
				}
			}
			r.ExpandAll()
			r.ExpandAll()
		})
	})
}
