package instrument

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/highaltitude/cutdown/pkg/core"
)

// Recorder keeps a ring buffer of per-tick RuntimeState snapshots for
// post-crash forensics - a literal black box, adapted from the corpus's
// memory/GC flight recorder to carry flight decision state instead.
type Recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
	index     int
	size      int
}

// Snapshot is a point-in-time copy of everything needed to reconstruct
// why a decision fired.
type Snapshot struct {
	Timestamp time.Time
	NowMs     uint32
	State     core.RuntimeState
	Telemetry core.TickResult
}

// NewRecorder returns a recorder holding the last size snapshots.
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = 120 // two minutes at 1 Hz
	}
	return &Recorder{snapshots: make([]Snapshot, size), size: size}
}

// Record appends a snapshot, overwriting the oldest once full.
func (r *Recorder) Record(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[r.index] = snap
	r.index = (r.index + 1) % r.size
}

// Dump writes every recorded snapshot, oldest first, plus the stack
// trace of whatever panicked, to w.
func (r *Recorder) Dump(w io.Writer, goroutineName string, panicValue any, stack []byte) {
	r.mu.Lock()
	snapshots := make([]Snapshot, r.size)
	copy(snapshots, r.snapshots)
	start := r.index
	r.mu.Unlock()

	fmt.Fprintf(w, "=== CUTDOWN CRASH REPORT ===\n")
	fmt.Fprintf(w, "Time: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Goroutine: %s\n", goroutineName)
	fmt.Fprintf(w, "Panic: %v\n\n", panicValue)
	fmt.Fprintf(w, "=== Stack Trace ===\n%s\n\n", stack)

	fmt.Fprintf(w, "=== Last %d ticks ===\n", r.size)
	count := 0
	for i := 0; i < r.size; i++ {
		snap := snapshots[(start+i)%r.size]
		if snap.Timestamp.IsZero() {
			continue
		}
		count++
		fmt.Fprintf(w, "[%d] %s now_ms=%d flight_state=%s cut_fired=%v cut_reason=%s terminated=%v\n",
			count, snap.Timestamp.Format("15:04:05.000"), snap.NowMs,
			snap.State.FlightState, snap.State.CutFired, snap.State.CutReason, snap.State.Terminated)
	}
	if count == 0 {
		fmt.Fprintf(w, "(no ticks recorded before the crash)\n")
	}
}
