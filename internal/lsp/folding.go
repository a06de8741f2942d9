package lsp

import (
	"encoding/json"
	"sort"

	"shisp/internal/token"
)

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return s.sendResponse(msg.ID, []foldingRange{})
	}
	return s.sendResponse(msg.ID, buildFoldingRanges(doc.tokens))
}

// buildFoldingRanges folds every parenthesised form spanning more than one
// line and every run of two or more consecutive comment lines.
// Unmatched parentheses are ignored.
func buildFoldingRanges(tokens []token.Token) []foldingRange {
	ranges := make([]foldingRange, 0, 8)
	open := make([]int, 0, 8)
	commentStart, commentEnd := -1, -1
	flushComments := func() {
		if commentStart >= 0 && commentEnd > commentStart {
			ranges = append(ranges, foldingRange{StartLine: commentStart, EndLine: commentEnd, Kind: "comment"})
		}
		commentStart, commentEnd = -1, -1
	}
	for _, tok := range tokens {
		line := int(tok.Row.Start)
		switch tok.Kind {
		case token.Comment:
			if commentStart >= 0 && line == commentEnd+1 {
				commentEnd = line
				continue
			}
			flushComments()
			commentStart, commentEnd = line, line
			continue
		case token.LeftParen:
			open = append(open, line)
		case token.RightParen:
			if len(open) == 0 {
				break
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if start < line {
				ranges = append(ranges, foldingRange{StartLine: start, EndLine: line})
			}
		}
		if !tok.Kind.IsTrivia() && line != commentEnd {
			flushComments()
		}
	}
	flushComments()
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].StartLine == ranges[j].StartLine {
			return ranges[i].EndLine < ranges[j].EndLine
		}
		return ranges[i].StartLine < ranges[j].StartLine
	})
	return ranges
}
