package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// ErrNoManifest is returned when no live.toml is found above the start directory.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

// Manifest is a decoded live.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package    PackageConfig          `toml:"package"`
	Crates     map[string]CrateConfig `toml:"crates"`
	Components []ComponentConfig      `toml:"component"`
}

type PackageConfig struct {
	Name string `toml:"name"`
	Root string `toml:"root"`
}

type CrateConfig struct {
	Root string `toml:"root"`
}

// ComponentConfig binds a Risor script as the deserializer of a component type.
type ComponentConfig struct {
	Module string `toml:"module"`
	Type   string `toml:"type"`
	Script string `toml:"script"`
}

// Crate is one source root of the workspace.
type Crate struct {
	Name string
	Dir  string
}

// LoadManifest finds live.toml starting at startDir and decodes it.
func LoadManifest(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// LoadConfig decodes and validates a manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || !IsValidModuleIdent(strings.TrimSpace(cfg.Package.Name)) {
		return Config{}, fmt.Errorf("%s: [package].name must be an identifier", path)
	}
	cfg.Package.Name = strings.TrimSpace(cfg.Package.Name)
	if strings.TrimSpace(cfg.Package.Root) == "" {
		cfg.Package.Root = "."
	}
	for name, c := range cfg.Crates {
		if !IsValidModuleIdent(name) {
			return Config{}, fmt.Errorf("%s: crate name %q must be an identifier", path, name)
		}
		if strings.TrimSpace(c.Root) == "" {
			return Config{}, fmt.Errorf("%s: missing [crates.%s].root", path, name)
		}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	for i, c := range cfg.Components {
		if c.Module == "" || c.Type == "" || c.Script == "" {
			return Config{}, fmt.Errorf("%s: [[component]] #%d needs module, type and script", path, i+1)
		}
	}
	return cfg, nil
}

// Crates lists the package crate first, then extra crates by name.
func (m *Manifest) Crates() []Crate {
	out := []Crate{{Name: m.Config.Package.Name, Dir: m.abs(m.Config.Package.Root)}}
	names := make([]string, 0, len(m.Config.Crates))
	for name := range m.Config.Crates {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		out = append(out, Crate{Name: name, Dir: m.abs(m.Config.Crates[name].Root)})
	}
	return out
}

// ScriptPath resolves a component script relative to the workspace root.
func (m *Manifest) ScriptPath(c ComponentConfig) string { return m.abs(c.Script) }

func (m *Manifest) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

// DefaultManifest returns a minimal live.toml for a new workspace.
func DefaultManifest(name string) string {
	return fmt.Sprintf(`# live workspace manifest
[package]
name = %q
root = "src"
`, name)
}

func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

