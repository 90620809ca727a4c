package core

import (
	"github.com/fiberqueue/updatequeue/common"
	"github.com/google/uuid"
)

// NodeTag discriminates node kinds. Only ClassNode participates in the
// dev-mode reducer-reentrancy warning (see diag.Logger).
type NodeTag int

const (
	HostNode NodeTag = iota
	FunctionNode
	ClassNode
	RootNode
)

// EffectFlags is the bitset a node accumulates across a processing pass.
type EffectFlags uint32

const (
	FlagCallback EffectFlags = 1 << iota
	FlagShouldCapture
	FlagDidCapture
	FlagEffectPending
)

func (f EffectFlags) Has(flag EffectFlags) bool { return f&flag != 0 }

// Node is one side of a tree node's double buffer: a committed ("current")
// view or a work-in-progress view. At most one Queue header hangs off each
// side; the two sides alias the same update chain by structural sharing
// until enqueueUpdate or the processor diverges them.
type Node struct {
	// TraceID correlates this binding across render/discard/retry cycles
	// in diagnostics and commit events. It is assigned once, at creation,
	// and is not part of the core algorithm.
	TraceID uuid.UUID

	Tag NodeTag

	MemoizedState State
	Alternate      *Node
	Queue          *Queue

	ResidualPriority common.Priority
	EffectFlags      EffectFlags
}

// NewNode creates a node binding with no alternate and no queue.
func NewNode(tag NodeTag, initialState State) *Node {
	return &Node{TraceID: uuid.New(), Tag: tag, MemoizedState: initialState}
}

// Pair links two bindings as current/alternate of the same tree node. It is
// the host's job to decide which side is "current" at any time; the core
// only ever looks at Alternate.
func Pair(a, b *Node) {
	a.Alternate = b
	b.Alternate = a
}

// EnsureAlternate returns node's alternate, lazily creating one that
// mirrors node's Tag and MemoizedState (but not its Queue — see
// enqueueUpdate, which is responsible for cloning queues lazily) if none
// exists yet.
func EnsureAlternate(node *Node) *Node {
	if node.Alternate == nil {
		alt := &Node{TraceID: node.TraceID, Tag: node.Tag, MemoizedState: node.MemoizedState}
		Pair(node, alt)
	}
	return node.Alternate
}
