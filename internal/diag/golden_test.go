package diag

import (
	"testing"

	"shisp/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/golden/sample.shisp", []byte("(a\n)b\n"), 0)
	helperFile := fs.Add("/workspace/testdata/fixtures/helper.shisp", []byte("x\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnclosedDelimiter,
			Message:  "unclosed\nparen",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: helperFile, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 3, End: 4}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     LexBadNumber,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 4, End: 5},
		},
	}

	expected := "error SYN2002 testdata/golden/sample.shisp:1:1 unclosed paren\n" +
		"note SYN2002 testdata/golden/sample.shisp:2:1 note line\n" +
		"warning LEX1004 testdata/golden/sample.shisp:2:2 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnterminatedString: "LEX1002",
		LexBadNumber:          "LEX1004",
		LexTokenTooLong:       "LEX1005",
		SynUnexpectedToken:    "SYN2001",
		SynUnclosedDelimiter:  "SYN2002",
		IOLoadFileError:       "IO4001",
		ProjInvalidManifest:   "PRJ5001",
		ObsTimings:            "OBS6001",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
		if code.Title() == codeDescription[UnknownCode] {
			t.Errorf("%s has no description", want)
		}
	}
	if Code(9999).ID() != "E0000" {
		t.Error("unknown ranges render as E0000")
	}
}
