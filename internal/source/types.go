package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
	// FileNormalizedNFC marks content rewritten to Unicode NFC on load.
	FileNormalizedNFC
)

// Normalization selects the Unicode normalisation applied when a file is loaded.
type Normalization uint8

const (
	// NormNone keeps content byte-for-byte (after CRLF/BOM handling).
	NormNone Normalization = iota
	// NormNFC rewrites content to canonical composition.
	NormNFC
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Range is a zero-based, inclusive pair of line or column numbers.
// Tokens and nodes carry one Range for rows and one for columns.
type Range struct {
	Start uint32
	End   uint32
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n uint32) bool {
	return r.Start <= n && n <= r.End
}

// Width returns the number of positions covered by the range.
func (r Range) Width() uint32 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}
