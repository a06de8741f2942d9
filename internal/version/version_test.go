package version

import (
	"testing"

	"github.com/fatih/color"
)

func withPlainColor(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func TestStyledPlain(t *testing.T) {
	withPlainColor(t)
	tests := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"weird", "weird"},
		{"1.2", "1.2"},
	}
	for _, tt := range tests {
		if got := Styled(tt.in); got != tt.want {
			t.Errorf("Styled(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLine(t *testing.T) {
	withPlainColor(t)
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3"
	GitCommit, BuildDate = "", ""
	if got := Line(); got != "shisp 1.2.3" {
		t.Errorf("Line() = %q", got)
	}

	GitCommit = "abc123"
	BuildDate = "2024-01-15T10:30:00Z"
	if got := Line(); got != "shisp 1.2.3 (abc123, 2024-01-15T10:30:00Z)" {
		t.Errorf("Line() = %q", got)
	}

	GitCommit = ""
	if got := Line(); got != "shisp 1.2.3 (2024-01-15T10:30:00Z)" {
		t.Errorf("Line() = %q", got)
	}
}
