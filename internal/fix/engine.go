// Package fix applies the machine-applicable edits attached to diagnostics.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"shisp/internal/diag"
	"shisp/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota // первый подходящий fix
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected and whether files are written.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	DryRun   bool // compute FileChange.Content, leave files untouched
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	id    string
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// applies them to the file contents held by fs and writes the results back
// unless opts.DryRun is set. Virtual files are only ever patched in dry runs.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, buildSkips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skipped, changes, err := applyCandidates(fs, selected, opts.DryRun)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = append(result.FileChanges, changes...)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates flattens diagnostics into fix candidates. Every fix gets an
// ID of the form CODE-file-start-index; a repeated ID is skipped.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var cands []candidate
	var skips []SkippedFix
	seen := make(map[string]bool)

	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if seen[id] {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[id] = true
			cands = append(cands, candidate{diag: d, fix: f, id: id, order: len(cands)})
		}
	}
	return cands, skips
}

// sortCandidates orders by file, primary span and then insertion order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.id == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	buffers := make(map[source.FileID][]byte)
	appliedEdits := make(map[source.FileID][]diag.FixEdit)
	fileEditCount := make(map[source.FileID]int)

	var applied []AppliedFix
	var skipped []SkippedFix
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		buckets := groupEditsByFile(cand.fix.Edits)
		staged := make(map[source.FileID][]byte)
		stagedApplied := make(map[source.FileID][]diag.FixEdit)
		totalEdits := 0
		var skipReason string

		for _, fileID := range sortedIDs(buckets) {
			edits := buckets[fileID]
			file := fileFor(fs, fileID)
			if file == nil {
				skipReason = "target file is unknown"
				break
			}
			if file.Flags&source.FileVirtual != 0 && !dryRun {
				skipReason = "target file is virtual"
				break
			}
			if conflictsWithExisting(appliedEdits[fileID], edits) {
				skipReason = fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", baseDir))
				break
			}

			base := buffers[fileID]
			if base == nil {
				base = file.Content
			}
			working := append([]byte(nil), base...)

			// с конца, чтобы ранние смещения не сдвигались
			sort.SliceStable(edits, func(i, j int) bool {
				if edits[i].Span.Start == edits[j].Span.Start {
					return edits[i].Span.End > edits[j].Span.End
				}
				return edits[i].Span.Start > edits[j].Span.Start
			})

			existing := append([]diag.FixEdit(nil), appliedEdits[fileID]...)
			for _, edit := range edits {
				start := int(edit.Span.Start) + cumulativeDelta(existing, int(edit.Span.Start))
				end := int(edit.Span.End) + cumulativeDelta(existing, int(edit.Span.End))
				if start < 0 || end < start || end > len(working) {
					skipReason = "edit span out of range"
					break
				}
				suffix := append([]byte(nil), working[end:]...)
				working = append(append(working[:start], edit.NewText...), suffix...)
				existing = insertEditSorted(existing, edit)
			}
			if skipReason != "" {
				break
			}
			staged[fileID] = working
			stagedApplied[fileID] = existing
			totalEdits += len(edits)
		}

		if skipReason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: skipReason})
			continue
		}

		for fileID, buf := range staged {
			buffers[fileID] = buf
			appliedEdits[fileID] = stagedApplied[fileID]
			fileEditCount[fileID] += len(buckets[fileID])
		}
		applied = append(applied, AppliedFix{
			ID:          cand.id,
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: formatFilePath(fs, cand.diag.Primary.File),
			EditCount:   totalEdits,
		})
	}

	if len(applied) == 0 {
		return applied, skipped, nil, nil
	}

	changes := make([]FileChange, 0, len(buffers))
	for _, fileID := range sortedIDs(buffers) {
		buf := buffers[fileID]
		file := fs.Get(fileID)
		if !dryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, buf, mode); err != nil {
				return applied, skipped, changes, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", baseDir),
			EditCount: fileEditCount[fileID],
			Content:   buf,
		})
	}
	return applied, skipped, changes, nil
}

func sortedIDs[V any](m map[source.FileID]V) []source.FileID {
	ids := make([]source.FileID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func conflictsWithExisting(existing, edits []diag.FixEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two edits overlap. Spans are half-open;
// two insertions never conflict, an insertion conflicts with a span that
// strictly contains its position.
func spansConflict(a, b diag.FixEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func groupEditsByFile(edits []diag.FixEdit) map[source.FileID][]diag.FixEdit {
	buckets := make(map[source.FileID][]diag.FixEdit)
	for _, edit := range edits {
		buckets[edit.Span.File] = append(buckets[edit.Span.File], edit)
	}
	return buckets
}

// cumulativeDelta is the shift at pos caused by edits that end at or before it.
func cumulativeDelta(edits []diag.FixEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		eStart := int(e.Span.Start)
		if eStart > pos {
			break
		}
		eEnd := int(e.Span.End)
		if eEnd <= pos {
			delta += len(e.NewText) - (eEnd - eStart)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.FixEdit, edit diag.FixEdit) []diag.FixEdit {
	i := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.FixEdit{})
	copy(edits[i+1:], edits[i:])
	edits[i] = edit
	return edits
}

func fileFor(fs *source.FileSet, id source.FileID) *source.File {
	if int(id) >= fs.Len() {
		return nil
	}
	return fs.Get(id)
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	file := fileFor(fs, fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}
