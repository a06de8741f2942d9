package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a liveness event every interval. In a trace of a hung
// directory run the heartbeats keep coming while span ends stop.
type Heartbeat struct {
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// StartHeartbeat returns nil when t is disabled or interval is not positive.
// Stop on a nil Heartbeat is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{})}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for n := 1; ; n++ {
			select {
			case now := <-tick.C:
				t.Emit(&Event{
					Time:   now,
					Seq:    NextSeq(),
					Kind:   KindHeartbeat,
					Scope:  ScopeDriver,
					GID:    goroutineID(),
					Name:   "heartbeat",
					Detail: "#" + strconv.Itoa(n),
				})
			case <-h.stop:
				return
			}
		}
	}()
	return h
}

// Stop ends the heartbeat goroutine and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.wg.Wait()
}
