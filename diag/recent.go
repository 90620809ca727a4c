package diag

import (
	"container/ring"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/fiberqueue/updatequeue/common"
)

// PassRecord summarizes one ProcessQueue call for a single node, for
// inspection by devtools-style tooling. It has no effect on processing —
// see spec.md §6.
type PassRecord struct {
	At               time.Time
	Duration         time.Duration
	Applied          int
	Skipped          int
	ResidualPriority common.Priority
}

// Recorder keeps a bounded ring of the most recent PassRecords per node.
// Tracking is itself bounded across nodes via an LRU cache keyed by node
// id: a process watching many nodes evicts the history of whichever node
// it looked at least recently, rather than growing without bound.
type Recorder struct {
	perNodeDepth int
	nodes        *lru.Cache[uuid.UUID, *ring.Ring]
}

// NewRecorder returns a Recorder tracking up to maxNodes distinct node
// histories, each holding up to perNodeDepth recent passes.
func NewRecorder(maxNodes, perNodeDepth int) *Recorder {
	cache, err := lru.New[uuid.UUID, *ring.Ring](maxNodes)
	if err != nil {
		// Only returned by golang-lru for a non-positive size; callers
		// pass a constant, so surface the misuse immediately.
		panic(err)
	}
	return &Recorder{perNodeDepth: perNodeDepth, nodes: cache}
}

// Record appends rec to nodeID's ring, evicting the oldest entry once the
// ring is full.
func (r *Recorder) Record(nodeID uuid.UUID, rec PassRecord) {
	history, ok := r.nodes.Get(nodeID)
	if !ok {
		history = ring.New(r.perNodeDepth)
		r.nodes.Add(nodeID, history)
	}
	history.Value = rec
	nextHistory := history.Next()
	r.nodes.Add(nodeID, nextHistory)
}

// Recent returns nodeID's recorded passes, oldest first. It is empty for
// an untracked or evicted node.
func (r *Recorder) Recent(nodeID uuid.UUID) []PassRecord {
	history, ok := r.nodes.Peek(nodeID)
	if !ok {
		return nil
	}
	var out []PassRecord
	history.Do(func(v any) {
		if v == nil {
			return
		}
		out = append(out, v.(PassRecord))
	})
	return out
}
