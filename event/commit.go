package event

import (
	"github.com/google/uuid"

	"github.com/fiberqueue/updatequeue/core"
)

// NodeID identifies the tree node binding a CommitEvent is reporting on.
type NodeID = uuid.UUID

// CommitEvent reports the outcome of one CommitQueue call: how many normal
// and captured callbacks fired, whether a ForceUpdate record was applied
// during the pass that produced this commit, and the joined error (if any)
// CommitQueue returned. Publishing is additive observability only — see
// core.CommitQueue, which knows nothing about this package.
type CommitEvent struct {
	NodeID      NodeID
	Applied     int
	Skipped     int
	ForceUpdate bool
	Err         error
}

// PublishCommit runs core.CommitQueue and publishes a CommitEvent
// describing the outcome onto bus. It is the wiring point named in the
// domain stack: hosts that don't care about observability can keep calling
// core.CommitQueue directly and never import this package at all.
func PublishCommit(bus *Feed[CommitEvent], node *core.Node, instance core.Instance, forceUpdate bool) error {
	queue := node.Queue
	applied := countEffects(queue.FirstEffect) + countEffects(queue.FirstCapturedEffect)
	skipped := 0
	if node.ResidualPriority != 0 {
		skipped = 1
	}

	err := core.CommitQueue(queue, instance)

	if bus != nil {
		bus.Send(CommitEvent{
			NodeID:      node.TraceID,
			Applied:     applied,
			Skipped:     skipped,
			ForceUpdate: forceUpdate,
			Err:         err,
		})
	}
	return err
}

func countEffects(first *core.Update) int {
	n := 0
	for u := first; u != nil; u = u.NextEffect {
		n++
	}
	return n
}
