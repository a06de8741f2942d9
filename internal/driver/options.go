package driver

import (
	"time"

	"shisp/internal/parser"
	"shisp/internal/source"
)

// SourceExt is the extension picked up by directory runs.
const SourceExt = ".shisp"

// Options control one driver run. The zero value parses strictly with no
// diagnostic limit, no cache and no progress reporting.
type Options struct {
	Mode           parser.Mode
	KeepTrivia     bool // tokenize only
	MaxDiagnostics int  // 0 means unlimited
	Normalize      source.Normalization
	Jobs           int // directory runs; <= 0 means GOMAXPROCS
	Cache          *DiskCache
	Timings        bool
	Progress       ProgressSink
}

// Stage is the step a file is in.
type Stage string

const (
	StageLoad     Stage = "load"
	StageTokenize Stage = "tokenize"
	StageParse    Stage = "parse"
)

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func (o *Options) emit(ev Event) {
	if o.Progress != nil {
		o.Progress.OnEvent(ev)
	}
}

// bagLimit maps "unlimited" onto the largest Bag the diag package allows.
func (o *Options) bagLimit() int {
	if o.MaxDiagnostics <= 0 || o.MaxDiagnostics > maxBag {
		return maxBag
	}
	return o.MaxDiagnostics
}

const maxBag = 1<<16 - 1
