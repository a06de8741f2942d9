package driver

import (
	"encoding/json"
	"fmt"

	"shisp/internal/diag"
	"shisp/internal/observ"
	"shisp/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic adds an OBS6001 info entry carrying the timer
// report as a JSON note. It bypasses the bag limit.
func appendTimingDiagnostic(bag *diag.Bag, kind, path string, timer *observ.Timer) {
	if bag == nil || timer == nil {
		return
	}
	report := timer.Report()
	payload := timingPayload{Kind: kind, Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", kind, report.TotalMS)
	if path != "" {
		msg += " in " + path
	}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data))
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
