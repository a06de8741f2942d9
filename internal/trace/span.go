package trace

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return globalSeq.Add(1) }

// NextSpanID returns a fresh span ID, never 0.
func NextSpanID() uint64 { return globalSpans.Add(1) }

// goroutineID parses "goroutine N [" from runtime.Stack.
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b, ok := bytes.CutPrefix(b, []byte("goroutine "))
	if !ok {
		return 0
	}
	if end := bytes.IndexByte(b, ' '); end >= 0 {
		b = b[:end]
	}
	gid, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is an open begin/end pair. A zero-cost Span is returned when the
// scope is filtered out, so callers never check for nil.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	gid      uint64
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
}

var dropped = &Span{tracer: Nop}

// Begin opens a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().records(scope) {
		return dropped
	}
	sp := &Span{
		tracer:   t,
		id:       NextSpanID(),
		parentID: parent,
		gid:      goroutineID(),
		scope:    scope,
		name:     name,
		started:  time.Now(),
	}
	t.Emit(sp.event(KindSpanBegin, sp.started, ""))
	return sp
}

// Start opens a span parented to the span in ctx and returns a context
// carrying the new one.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	sp := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if sp == dropped {
		return ctx, sp
	}
	return WithSpanContext(ctx, SpanContext{SpanID: sp.id, GID: sp.gid}), sp
}

// End emits the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || !s.tracer.Enabled() {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now, detail)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return now.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || !s.tracer.Enabled() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for a dropped span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
	}
}

// Point emits an instant event under the span in ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().records(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: CurrentSpan(ctx).SpanID,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
