package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

// handSeeds cover the lexer corners that a random corpus rarely hits.
var handSeeds = []string{
	"",
	"(",
	")",
	"(()",
	"())",
	"'(a . b)",
	"`(a ,b ,@c)",
	"\"unterminated",
	"\"multi\nline\"",
	"18446744073709551616",
	"#t#f#x",
	"a;b\n;c",
	"\r\n\t \v\f  ",
	"(世界 \"λ\")",
	"@,@,,@",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range handSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
	addReadmeSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.shisp файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".shisp" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// addReadmeSeeds adds every ```shisp block of the README.
func addReadmeSeeds(f *testing.F) {
	// #nosec G304 -- path is a fixed repository location
	data, err := os.ReadFile(filepath.Join("..", "..", "README.md"))
	if err != nil {
		return
	}
	var block [][]byte
	inBlock := false
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		trimmed := strings.TrimSpace(string(line))
		switch {
		case strings.HasPrefix(trimmed, "```shisp"):
			inBlock = true
			block = block[:0]
		case strings.HasPrefix(trimmed, "```"):
			if inBlock {
				if snippet := clampSeed(bytes.Join(block, []byte{'\n'})); len(snippet) > 0 {
					f.Add(snippet)
				}
			}
			inBlock = false
		case inBlock:
			block = append(block, line)
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
