// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// A Diagnostic carries a Severity, a stable Code (rendered as LEX1002,
// SYN2001 and so on), a short Message and a primary source.Span. Notes point at
// secondary locations, e.g. the '(' an unclosed-expression error refers to.
// Fixes are plain data; nothing in the reader applies them.
//
// Producers emit through a Reporter so they never depend on storage.
// BagReporter collects into a Bag which the driver sorts, deduplicates and
// hands to internal/diagfmt for rendering. Package diag does no formatting
// and no IO.
package diag
