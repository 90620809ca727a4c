package core

import "github.com/fiberqueue/updatequeue/common"

// Tag discriminates the four kinds of update a record can carry.
type Tag int

const (
	// UpdateState merges a partial state fragment over the previous state.
	UpdateState Tag = iota
	// ReplaceState replaces the previous state outright.
	ReplaceState
	// ForceUpdate carries no state change; it only sets the force-update
	// flag consumed via ConsumeHasForceUpdate.
	ForceUpdate
	// CaptureUpdate is UpdateState semantics plus clearing ShouldCapture
	// and setting DidCapture on the owning node.
	CaptureUpdate
)

func (t Tag) String() string {
	switch t {
	case UpdateState:
		return "UpdateState"
	case ReplaceState:
		return "ReplaceState"
	case ForceUpdate:
		return "ForceUpdate"
	case CaptureUpdate:
		return "CaptureUpdate"
	default:
		return "Unknown"
	}
}

// Update is a single requested mutation. It is append-only after creation
// except for Callback (cleared once fired) and NextEffect (reset at the
// start of every processing pass). Next is the persistent insertion-chain
// link shared by structural sharing across both sides of a node's double
// buffer; NextEffect is rebuilt from scratch on each ProcessQueue call.
type Update struct {
	Priority common.Priority
	Tag      Tag
	Payload  any
	Callback func(Instance)

	Next       *Update
	NextEffect *Update
}

// CreateUpdate returns a fresh UpdateState record at the given priority.
// Callers mutate Payload, Callback and Tag before enqueuing it — this is
// the only constructor.
func CreateUpdate(priority common.Priority) *Update {
	return &Update{Priority: priority, Tag: UpdateState}
}
