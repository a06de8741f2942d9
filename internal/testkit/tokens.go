package testkit

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"shisp/internal/source"
	"shisp/internal/token"
)

// CheckTokenTiling verifies token spans against the file they were lexed from:
//  1. every token's Text is exactly the source under its Span;
//  2. a token stays on one row and its column range is as wide as its Text in runes;
//  3. tokens are ordered and do not overlap, both in bytes and in columns.
//
// With exact set (trivia kept) it also requires that tokens cover every byte of
// the file and every column of every line with no gaps.
func CheckTokenTiling(sf *source.File, toks []token.Token, exact bool) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev *token.Token
	for i := range toks {
		tok := &toks[i]
		if tok.Span.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, tok.Span.File, sf.ID)
		}
		if tok.Span.End > lenContent || tok.Span.Empty() {
			return fmt.Errorf("token %d: bad span %v", i, tok.Span)
		}
		if got := sf.Text(tok.Span); got != tok.Text {
			return fmt.Errorf("token %d: text %q does not match source %q", i, tok.Text, got)
		}
		if tok.Row.Start != tok.Row.End {
			return fmt.Errorf("token %d (%s): spans rows %d..%d", i, tok.Kind, tok.Row.Start, tok.Row.End)
		}
		runes, err := safecast.Conv[uint32](utf8.RuneCountInString(tok.Text))
		if err != nil {
			return fmt.Errorf("token %d: rune count overflow: %w", i, err)
		}
		if tok.Col.Width() != runes {
			return fmt.Errorf("token %d (%q): column range %d..%d, want %d runes", i, tok.Text, tok.Col.Start, tok.Col.End, runes)
		}

		switch {
		case prev == nil:
			if exact && (tok.Span.Start != 0 || tok.Row.Start != 0 || tok.Col.Start != 0) {
				return fmt.Errorf("token %d: first token does not start the file", i)
			}
		case tok.Span.Start < prev.Span.End:
			return fmt.Errorf("token %d: overlaps previous token (%v after %v)", i, tok.Span, prev.Span)
		case exact && tok.Span.Start != prev.Span.End:
			return fmt.Errorf("token %d: gap before %v", i, tok.Span)
		case tok.Row.Start < prev.Row.Start:
			return fmt.Errorf("token %d: row goes backwards", i)
		case tok.Row.Start == prev.Row.Start:
			if tok.Col.Start <= prev.Col.End {
				return fmt.Errorf("token %d: columns overlap on row %d", i, tok.Row.Start)
			}
			if exact && tok.Col.Start != prev.Col.End+1 {
				return fmt.Errorf("token %d: column gap on row %d", i, tok.Row.Start)
			}
		case exact:
			if prev.Kind != token.Newline || tok.Row.Start != prev.Row.Start+1 || tok.Col.Start != 0 {
				return fmt.Errorf("token %d: row %d does not start at column 0 after a line break", i, tok.Row.Start)
			}
		}
		prev = tok
	}

	if exact {
		var end uint32
		if prev != nil {
			end = prev.Span.End
		}
		if end != lenContent {
			return fmt.Errorf("tokens end at %d, file has %d bytes", end, lenContent)
		}
	}
	return nil
}
