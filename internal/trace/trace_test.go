package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFilters(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		l, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if l.String() != strings.ToLower(s) {
			t.Errorf("ParseLevel(%q) = %s", s, l)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestStreamSpanNesting(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, outer := Start(ctx, ScopeDriver, "parse-dir")
	_, inner := Start(ctx, ScopeFile, "file:a.shisp")
	inner.WithExtra("nodes", "3").End("")
	// отфильтровано уровнем
	Begin(tr, ScopeNode, "scope", outer.ID()).End("")
	outer.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events, want 4:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "file:a.shisp" || ev.ParentID != outer.ID() {
		t.Errorf("unexpected inner end event: %+v", ev)
	}
	if ev.Extra["nodes"] != "3" {
		t.Errorf("extra lost: %+v", ev.Extra)
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: name})
	}
	got := r.Snapshot()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" {
		t.Fatalf("snapshot = %+v", got)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\u2022 c") {
		t.Errorf("dump missing event c:\n%s", buf.String())
	}
}

func TestNewPicksSinks(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff: %v %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if RingOf(tr) == nil {
		t.Error("ModeBoth has no ring")
	}

	tr, err = New(Config{Level: LevelError, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if RingOf(tr) == nil {
		t.Error("LevelError should fall back to a ring")
	}
	Point(WithTracer(context.Background(), tr), ScopePass, "lex", "")
	if n := len(RingOf(tr).Snapshot()); n != 1 {
		t.Errorf("ring at LevelError kept %d events, want 1", n)
	}
}

func TestTextFormatSortsExtra(t *testing.T) {
	ev := &Event{Kind: KindSpanEnd, Scope: ScopePass, Name: "parse", Extra: map[string]string{"z": "1", "a": "2"}}
	got := string(FormatEvent(ev, FormatText))
	if !strings.Contains(got, "\u2190 parse {a=2, z=1}") {
		t.Errorf("text = %q", got)
	}
}
