package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("lex")
	tm.End(idx, "12 tokens")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].Name != "lex" || r.Phases[0].Note != "12 tokens" {
		t.Fatalf("report = %+v", r)
	}
	if s := tm.Summary(); !strings.Contains(s, "lex") || !strings.Contains(s, "// 12 tokens") {
		t.Errorf("summary = %q", s)
	}
}

func TestTimerEmpty(t *testing.T) {
	if r := NewTimer().Report(); r.Phases != nil || r.TotalMS != 0 {
		t.Errorf("empty report = %+v", r)
	}
}

func TestTimerMergeConcurrent(t *testing.T) {
	total := NewTimer()
	var wg sync.WaitGroup
	for _, name := range []string{"a.shisp", "b.shisp", "c.shisp"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := NewTimer()
			local.End(local.Begin("parse"), "")
			total.Merge(name+"/", local)
		}()
	}
	wg.Wait()
	if n := len(total.Report().Phases); n != 3 {
		t.Fatalf("merged %d phases, want 3", n)
	}
}
