package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the shisp CLI.
// These variables can be overridden at build time via -ldflags.

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = [...]*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Styled colours the major, minor and patch parts of v; a pre-release
// suffix stays plain. Anything that is not x.y.z is returned as is.
func Styled(v string) string {
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if len(parts) != len(partColors) {
		return v
	}
	for i, p := range parts {
		parts[i] = partColors[i].Sprint(p)
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Line is the one-line summary printed by `shisp version`.
func Line() string {
	var b strings.Builder
	b.WriteString("shisp ")
	b.WriteString(Styled(Version))
	if GitCommit != "" {
		b.WriteString(" (" + GitCommit)
		if BuildDate != "" {
			b.WriteString(", " + BuildDate)
		}
		b.WriteString(")")
	} else if BuildDate != "" {
		b.WriteString(" (" + BuildDate + ")")
	}
	return b.String()
}
