package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"shisp/internal/diag"
	"shisp/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note, fix func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgCyan),
		fix:    mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return p.err(s.String())
	case diag.SevWarning:
		return p.warn(s.String())
	default:
		return p.info(s.String())
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		d := &items[i]
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := locatedFile(fs, d)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity), p.code(d.Code.ID()), d.Message)
	} else {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			displayPath(fs, f, opts.PathMode), start.Line, start.Col,
			p.severity(d.Severity), p.code(d.Code.ID()), d.Message)
		writeSnippet(w, fs, f, d.Primary, opts.Context, p)
	}

	if opts.ShowNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			if nf := fileOf(fs, n.Span); nf != nil && f != nil {
				pos, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note("note:"), displayPath(fs, nf, opts.PathMode), pos.Line, pos.Col, n.Msg)
				continue
			}
			fmt.Fprintf(w, "  %s %s\n", p.note("note:"), n.Msg)
		}
	}

	if !opts.ShowFixes {
		return
	}
	for i, fix := range d.Fixes {
		fmt.Fprintf(w, "  %s %s\n", p.fix(fmt.Sprintf("fix #%d:", i+1)), fix.Title)
		for _, e := range fix.Edits {
			ef := fileOf(fs, e.Span)
			if ef == nil {
				continue
			}
			s, en := fs.Resolve(e.Span)
			fmt.Fprintf(w, "    edit %s:%d:%d-%d:%d apply=%q\n", displayPath(fs, ef, opts.PathMode), s.Line, s.Col, en.Line, en.Col, e.NewText)
			if !opts.ShowPreview {
				continue
			}
			pv, err := buildFixEditPreview(fs, e)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, l := range pv.before {
				fmt.Fprintf(w, "      - %s\n", l)
			}
			for _, l := range pv.after {
				fmt.Fprintf(w, "      + %s\n", l)
			}
		}
	}
}

// writeSnippet prints the primary line (plus context) and a caret line under
// the span. Carets are aligned by display width so wide runes line up.
func writeSnippet(w io.Writer, fs *source.FileSet, f *source.File, sp source.Span, context int8, p palette) {
	start, end := fs.Resolve(sp)
	first := max(1, int(start.Line)-int(context))
	last := int(start.Line) + int(context)
	if n := f.LineCount(); last > n {
		last = max(n, int(start.Line))
	}
	gw := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		line := strings.TrimSuffix(f.GetLine(uint32(ln)), "\r") // #nosec G115 -- ln <= LineCount
		fmt.Fprintf(w, " %s %s %s\n", p.gutter(fmt.Sprintf("%*d", gw, ln)), p.gutter("|"), expandTabs(line))
		if ln != int(start.Line) {
			continue
		}
		// колонки байтовые, 1-based
		lo := clampCol(line, int(start.Col)-1)
		hi := len(line)
		if end.Line == start.Line {
			hi = clampCol(line, int(end.Col)-1)
		}
		pad := runewidth.StringWidth(expandTabs(line[:lo]))
		width := max(1, runewidth.StringWidth(expandTabs(line[lo:hi])))
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s %s%s\n", strings.Repeat(" ", gw), p.gutter("|"), strings.Repeat(" ", pad), p.caret(marker))
	}
}

func clampCol(line string, c int) int {
	return min(max(c, 0), len(line))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
