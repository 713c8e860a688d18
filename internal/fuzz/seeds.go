package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// languageSeeds cover every construct of the grammar at least once.
var languageSeeds = []string{
	``,
	`A: Component {}`,
	`use crate::theme::*;
Button: Component {
    color: #ff00aa, // trailing comment
    size: vec2(1.5, -2),
    /* block /* nested */ */ label: "hi \"there\""
}`,
	`Base: Component { x: 1, inner: { y: 2 } }
Derived: Base { x: 3, inner.y: 4 }`,
	`use crate::base::Widget
MyWidget: Widget { field: 2 }
ref: Widget.field`,
	`Theme: Component { accent: #0f0 }
Card: Component { tint: Theme.accent, list: [1, 2.5, true, "s"] }`,
	`Shader: Component { fn pixel(self) -> vec4 { return mix(#f00, #00f, self.t); } }`,
	`Self: { a: 1 }`,
	`Copy: Self {}`,
	`Size: Enum { Small, Large }
S: Size.Small`,
	`Anim: Component { curve: Ease.in_out(0.2, 0.4) }`,
	`use crate::a::b::c::{`,
	`A: { b: [ { c: d.e.f } ] }`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.live файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".live" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
