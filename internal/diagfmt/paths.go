package diagfmt

import (
	"shisp/internal/diag"
	"shisp/internal/source"
)

func displayPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// fileOf returns nil for spans that point at no loaded file, e.g. the empty
// span of a load failure in an empty FileSet.
func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || int(sp.File) >= fs.Len() {
		return nil
	}
	return fs.Get(sp.File)
}

// locatedFile returns the file a diagnostic points into, or nil. I/O and
// timing entries carry a zero span that means "no location".
func locatedFile(fs *source.FileSet, d *diag.Diagnostic) *source.File {
	switch d.Code {
	case diag.IOLoadFileError, diag.ObsTimings:
		return nil
	}
	return fileOf(fs, d.Primary)
}
