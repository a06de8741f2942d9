// Package token defines lexical token kinds and the lexeme classifier for the
// shisp reader.
// Invariants:
//   - Token.Text is the exact source substring the token was built from.
//   - Token.Span matches Text exactly (Start..End, bytes, half-open).
//   - Token.Row/Col are zero-based inclusive ranges; a token never spans lines,
//     so Row.Start == Row.End.
//   - Classify is total: every lexeme maps to some Kind, falling back to Atom.
//   - Whitespace, Tab and Newline tokens only appear when the lexer keeps trivia.
package token
