package lexer

import (
	"shisp/internal/diag"
	"shisp/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
	// KeepTrivia makes the lexer emit Whitespace, Tab and Newline tokens so the
	// token stream tiles every line exactly.
	KeepTrivia bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportWarning(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
