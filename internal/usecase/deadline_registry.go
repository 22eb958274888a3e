package usecase

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DeadlineRegistry owns one pending check-in timer per scrim. Scheduling an
// id that already has a timer replaces it; a fired timer removes itself.
type DeadlineRegistry struct {
	mu     sync.Mutex
	clock  clock.Clock
	timers map[int64]*deadlineTimer
	seq    uint64
}

type deadlineTimer struct {
	timer *clock.Timer
	seq   uint64
	at    time.Time
}

func NewDeadlineRegistry(clk clock.Clock) *DeadlineRegistry {
	if clk == nil {
		clk = clock.New()
	}
	return &DeadlineRegistry{
		clock:  clk,
		timers: make(map[int64]*deadlineTimer),
	}
}

func (r *DeadlineRegistry) Schedule(scrimID int64, after time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if after < 0 {
		after = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.timers[scrimID]; ok {
		existing.timer.Stop()
	}

	r.seq++
	seq := r.seq
	entry := &deadlineTimer{seq: seq, at: r.clock.Now().Add(after)}
	entry.timer = r.clock.AfterFunc(after, func() {
		if r.release(scrimID, seq) {
			fn()
		}
	})
	r.timers[scrimID] = entry
}

// release drops the entry when it still belongs to the timer that fired.
func (r *DeadlineRegistry) release(scrimID int64, seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.timers[scrimID]
	if !ok || entry.seq != seq {
		return false
	}
	delete(r.timers, scrimID)
	return true
}

// Cancel stops the pending timer for scrimID and reports whether one existed.
func (r *DeadlineRegistry) Cancel(scrimID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.timers[scrimID]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(r.timers, scrimID)
	return true
}

func (r *DeadlineRegistry) Pending(scrimID int64) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.timers[scrimID]
	if !ok {
		return time.Time{}, false
	}
	return entry.at, true
}

func (r *DeadlineRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Stop cancels every pending timer and returns how many were pending.
func (r *DeadlineRegistry) Stop() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.timers)
	for id, entry := range r.timers {
		entry.timer.Stop()
		delete(r.timers, id)
	}
	return n
}
