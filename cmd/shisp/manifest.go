package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"shisp/internal/diagfmt"
	"shisp/internal/parser"
)

const manifestName = "shisp.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
	meta   toml.MetaData
}

type projectConfig struct {
	Reader readerConfig `toml:"reader"`
	Output outputConfig `toml:"output"`
	Cache  cacheConfig  `toml:"cache"`
}

type readerConfig struct {
	Mode       string `toml:"mode"`
	KeepTrivia bool   `toml:"keep_trivia"`
	Normalize  string `toml:"normalize"`
}

type outputConfig struct {
	Format         string `toml:"format"`
	DiagFormat     string `toml:"diag_format"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	PathMode       string `toml:"path_mode"`
}

type cacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// findManifest walks up from startDir looking for shisp.toml.
func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadManifest(startDir string) (*projectManifest, bool, error) {
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, true, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("reader", "mode") {
		if _, err := parser.ParseMode(cfg.Reader.Mode); err != nil {
			return nil, true, fmt.Errorf("%s: [reader].mode: %w", path, err)
		}
	}
	if meta.IsDefined("reader", "normalize") {
		if _, err := parseNormalize(cfg.Reader.Normalize); err != nil {
			return nil, true, fmt.Errorf("%s: [reader].normalize: %w", path, err)
		}
	}
	if meta.IsDefined("output", "path_mode") {
		if _, ok := diagfmt.ParsePathMode(cfg.Output.PathMode); !ok {
			return nil, true, fmt.Errorf("%s: [output].path_mode: invalid value %q", path, cfg.Output.PathMode)
		}
	}
	if cfg.Output.MaxDiagnostics < 0 {
		return nil, true, fmt.Errorf("%s: [output].max_diagnostics must not be negative", path)
	}
	return &projectManifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		meta:   meta,
	}, true, nil
}

type manifestBinding struct {
	section, key string
	flag         string
	value        string
}

// bindings lists the manifest keys that are set, paired with their flags.
func (m *projectManifest) bindings() []manifestBinding {
	c := m.Config
	all := []manifestBinding{
		{"reader", "mode", "mode", c.Reader.Mode},
		{"reader", "keep_trivia", "keep-trivia", strconv.FormatBool(c.Reader.KeepTrivia)},
		{"reader", "normalize", "normalize", c.Reader.Normalize},
		{"output", "format", "format", c.Output.Format},
		{"output", "diag_format", "diag-format", c.Output.DiagFormat},
		{"output", "max_diagnostics", "max-diagnostics", strconv.Itoa(c.Output.MaxDiagnostics)},
		{"output", "path_mode", "path-mode", c.Output.PathMode},
		{"cache", "enabled", "cache", strconv.FormatBool(c.Cache.Enabled)},
		{"cache", "dir", "cache-dir", m.cacheDir()},
	}
	out := all[:0]
	for _, b := range all {
		if m.meta.IsDefined(b.section, b.key) {
			out = append(out, b)
		}
	}
	return out
}

// cacheDir resolves [cache].dir against the manifest directory.
func (m *projectManifest) cacheDir() string {
	dir := m.Config.Cache.Dir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}

// applyManifest fills flags the user did not set from the nearest shisp.toml.
// Flags given on the command line always win.
func applyManifest(cmd *cobra.Command, target string) (*projectManifest, error) {
	start := target
	if target == "" || target == stdinArg {
		start = "."
	} else if st, err := os.Stat(target); err == nil && !st.IsDir() {
		start = filepath.Dir(target)
	}
	m, ok, err := loadManifest(start)
	if err != nil || !ok {
		return nil, err
	}
	flags := cmd.Flags()
	for _, b := range m.bindings() {
		f := flags.Lookup(b.flag)
		if f == nil || f.Changed {
			continue
		}
		// форматы вывода у tokenize и parse разные
		if b.flag == "format" && cmd.Name() != "parse" {
			continue
		}
		if err := flags.Set(b.flag, b.value); err != nil {
			return nil, fmt.Errorf("%s: [%s].%s: %w", m.Path, b.section, b.key, err)
		}
		// Set помечает флаг как изменённый; для приоритета важен только ввод пользователя
		f.Changed = false
	}
	return m, nil
}
