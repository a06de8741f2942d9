package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	// Добавляем файл первый раз
	id1 := fs.Add("test.shisp", []byte("(a b)"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("test.shisp")
	if !exists || latestID != id1 {
		t.Fatalf("Expected latest ID %d, got %d (exists=%v)", id1, latestID, exists)
	}

	// Добавляем тот же файл с новым содержимым
	id2 := fs.Add("test.shisp", []byte("(c d)"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}
	latestID, _ = fs.GetLatest("test.shisp")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "(a b)" {
		t.Errorf("Expected first file content to be '(a b)', got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("virtual.shisp", []byte("(a)\n(b)\n;c"))
	f := fs.Get(id)

	if f.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
	want := []uint32{3, 7}
	if len(f.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", f.LineIdx, want)
	}
	for i := range want {
		if f.LineIdx[i] != want[i] {
			t.Errorf("LineIdx[%d] = %d, want %d", i, f.LineIdx[i], want[i])
		}
	}
	if f.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", f.LineCount())
	}
	if got := f.GetLine(2); got != "(b)" {
		t.Errorf("GetLine(2) = %q, want %q", got, "(b)")
	}
	if got := f.GetLine(3); got != ";c" {
		t.Errorf("GetLine(3) = %q, want %q", got, ";c")
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("GetLine(4) = %q, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.shisp", []byte("(for)\n(the win)"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{4, LineCol{Line: 1, Col: 5}},
		{5, LineCol{Line: 1, Col: 6}}, // сам перевод строки принадлежит первой строке
		{6, LineCol{Line: 2, Col: 1}},
		{11, LineCol{Line: 2, Col: 6}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestFileText(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("t.shisp", []byte(`(print "hi")`)))
	if got := f.Text(Span{Start: 7, End: 11}); got != `"hi"` {
		t.Errorf("Text() = %q", got)
	}
	if got := f.Text(Span{Start: 10, End: 100}); got != `")` {
		t.Errorf("clamped Text() = %q", got)
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.shisp")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("(a)\r\n(b)\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "(a)\n(b)\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
}

func TestAddVirtualNFC(t *testing.T) {
	fs := NewFileSet()
	fs.SetNormalization(NormNFC)

	// "e" + combining acute accent -> "é"
	id := fs.AddVirtual("nfc.shisp", []byte("(cafe\u0301)"))
	f := fs.Get(id)
	if string(f.Content) != "(caf\u00e9)" {
		t.Errorf("content = %q, want NFC form", f.Content)
	}
	if f.Flags&FileNormalizedNFC == 0 {
		t.Error("expected FileNormalizedNFC flag")
	}

	id = fs.AddVirtual("plain.shisp", []byte("(cafe)"))
	if fs.Get(id).Flags&FileNormalizedNFC != 0 {
		t.Error("already normal content must not be flagged")
	}
}
