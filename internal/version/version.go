// Package version holds build metadata of the liveweave CLI.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with major, minor and patch in their own colors.
// The pre-release suffix stays plain.
func Colored(enabled bool) string {
	core, suffix, hasSuffix := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := make([]string, 3)
	for i, c := range []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor} {
		cc := *c
		if enabled {
			cc.EnableColor()
		} else {
			cc.DisableColor()
		}
		out[i] = cc.Sprint(parts[i])
	}
	s := strings.Join(out, ".")
	if hasSuffix {
		s += "-" + suffix
	}
	return s
}

// Info is the one-line banner printed by `liveweave version`.
func Info(colored bool) string {
	var b strings.Builder
	b.WriteString("liveweave ")
	b.WriteString(Colored(colored))
	var meta []string
	if GitCommit != "" {
		meta = append(meta, "commit "+GitCommit)
	}
	if BuildDate != "" {
		meta = append(meta, "built "+BuildDate)
	}
	if len(meta) > 0 {
		b.WriteString(" (" + strings.Join(meta, ", ") + ")")
	}
	if GitMessage != "" {
		b.WriteString("\n  " + GitMessage)
	}
	return b.String()
}
