package lsp

import "unicode/utf8"

func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start)
		end := offsetForPosition(text, change.Range.End)
		if end < start {
			end = start
		}
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition maps an LSP position (UTF-16 columns) to a byte offset.
// Out of range positions are clamped to the line or the text end.
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	line := 0
	i := 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}
	units := 0
	for i < len(text) && text[i] != '\n' {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}

// positionForOffset is the inverse of offsetForPosition.
func positionForOffset(text string, offset int) position {
	if offset > len(text) {
		offset = len(text)
	}
	var pos position
	i := 0
	for i < offset {
		if text[i] == '\n' {
			pos.Line++
			pos.Character = 0
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if r > 0xFFFF {
			pos.Character += 2
		} else {
			pos.Character++
		}
		i += size
	}
	return pos
}

func rangeForOffsets(text string, start, end int) lspRange {
	return lspRange{
		Start: positionForOffset(text, start),
		End:   positionForOffset(text, end),
	}
}
