package token_test

import "shisp/internal/source"

func sourceSpan(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func rng(start, end uint32) source.Range {
	return source.Range{Start: start, End: end}
}
