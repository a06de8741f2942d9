package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"shisp/internal/token"
)

type TokenOutput struct {
	Kind  string    `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Value *uint64   `json:"value,omitempty"` // Number only
	Row   [2]uint32 `json:"row"`
	Col   [2]uint32 `json:"col"`
	Span  [2]uint32 `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате:
// номер, вид, текст и позиция row:col-row:col (с нуля, включительно).
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-14s %-12q at %d:%d-%d:%d",
			i+1, tok.Kind, tok.Text,
			tok.Row.Start, tok.Col.Start, tok.Row.End, tok.Col.End); err != nil {
			return err
		}
		if tok.Kind == token.Number {
			fmt.Fprintf(w, " = %d", tok.Num)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokensJSON(tokens))
}

// BuildTokensJSON converts tokens to their JSON shape; never nil.
func BuildTokensJSON(tokens []token.Token) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Row:  [2]uint32{tok.Row.Start, tok.Row.End},
			Col:  [2]uint32{tok.Col.Start, tok.Col.End},
			Span: [2]uint32{tok.Span.Start, tok.Span.End},
		}
		if tok.Kind == token.Number {
			v := tok.Num
			out.Value = &v
		}
		output = append(output, out)
	}
	return output
}
