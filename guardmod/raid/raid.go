// Package raid detects mass-join bursts against a trailing time window.
//
// Each chat gets its own window of join timestamps, so a raid on one
// community never trips detection for another. Detection is level-triggered:
// every join while the window holds at or above the threshold reports a raid,
// until enough joins age out. De-duplicating the resulting notifications is
// the caller's concern.
package raid

import (
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type Detector struct {
	windows   *xsync.MapOf[int64, *window]
	threshold int
	span      time.Duration
}

type window struct {
	mu    sync.Mutex
	joins []time.Time
}

func NewDetector(threshold int, span time.Duration) *Detector {
	if threshold < 1 {
		threshold = 1
	}
	if span <= 0 {
		span = time.Minute
	}
	return &Detector{
		windows:   xsync.NewMapOf[int64, *window](),
		threshold: threshold,
		span:      span,
	}
}

// ObserveJoin records a join for the chat and reports whether the chat's
// join rate is at raid level: at least threshold joins within the trailing
// span, the new join included.
func (d *Detector) ObserveJoin(chatID int64, ts time.Time) bool {
	w, _ := d.windows.LoadOrCompute(chatID, func() *window {
		return &window{}
	})

	w.mu.Lock()
	defer w.mu.Unlock()

	w.joins = append(w.joins, ts)
	w.prune(ts.Add(-d.span))
	return len(w.joins) >= d.threshold
}

// ActiveJoins returns how many joins the chat's window holds as of now.
// Chats that have never seen a join report zero.
func (d *Detector) ActiveJoins(chatID int64, now time.Time) int {
	w, ok := d.windows.Load(chatID)
	if !ok {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(now.Add(-d.span))
	return len(w.joins)
}

// prune drops timestamps at or before the cutoff. Joins arrive in order per
// chat, so the slice stays sorted and a prefix scan suffices.
func (w *window) prune(cutoff time.Time) {
	i := 0
	for i < len(w.joins) && !w.joins[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.joins = append(w.joins[:0], w.joins[i:]...)
	}
}
