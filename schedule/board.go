// Package schedule offers a priority index over tree nodes, not a
// scheduler: spec.md places "policy on when processing is triggered" out
// of scope, so Board never calls back into the core. It only answers
// "which node has the most urgent residual work" for a host that already
// decided to ask. Grounded on go-ethereum's common/prque generic binary
// heap (retrieved as prque_test.go in the teacher pack), adapted from a
// push/pop-only queue to a keyed index so a node's priority can be raised
// or lowered in place across repeated ProcessQueue passes instead of
// accumulating stale duplicate entries.
package schedule

import (
	"container/heap"

	"github.com/fiberqueue/updatequeue/common"
)

// NodeID identifies a tracked node. Any comparable identifier works; hosts
// typically use the node's uuid.UUID trace id.
type NodeID = any

type entry struct {
	id       NodeID
	priority common.Priority
	index    int
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

// Less orders by descending priority: the heap root is the highest.
func (h entryHeap) Less(i, j int) bool { return h[i].priority > h[j].priority }

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Board tracks the most recent residual priority reported for each node.
// It is not safe for concurrent use without external synchronization; a
// host driving one processing sweep at a time needs none.
type Board struct {
	h     entryHeap
	index map[NodeID]*entry
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{index: make(map[NodeID]*entry)}
}

// Note records nodeID's residual priority, overwriting whatever was noted
// for it before. A NoWork priority removes the node from the board
// entirely — there is nothing urgent left to track.
func (b *Board) Note(nodeID NodeID, priority common.Priority) {
	if e, ok := b.index[nodeID]; ok {
		if priority == common.NoWork {
			heap.Remove(&b.h, e.index)
			delete(b.index, nodeID)
			return
		}
		e.priority = priority
		heap.Fix(&b.h, e.index)
		return
	}
	if priority == common.NoWork {
		return
	}
	e := &entry{id: nodeID, priority: priority}
	heap.Push(&b.h, e)
	b.index[nodeID] = e
}

// Forget removes nodeID from the board, regardless of its priority.
func (b *Board) Forget(nodeID NodeID) {
	e, ok := b.index[nodeID]
	if !ok {
		return
	}
	heap.Remove(&b.h, e.index)
	delete(b.index, nodeID)
}

// Len reports how many nodes the board is currently tracking.
func (b *Board) Len() int { return b.h.Len() }

// Peek returns the highest-priority node without removing it. ok is false
// when the board is empty.
func (b *Board) Peek() (nodeID NodeID, priority common.Priority, ok bool) {
	if b.h.Len() == 0 {
		return nil, common.NoWork, false
	}
	top := b.h[0]
	return top.id, top.priority, true
}

// PopHighest removes and returns the highest-priority node. ok is false
// when the board is empty.
func (b *Board) PopHighest() (nodeID NodeID, priority common.Priority, ok bool) {
	if b.h.Len() == 0 {
		return nil, common.NoWork, false
	}
	e := heap.Pop(&b.h).(*entry)
	delete(b.index, e.id)
	return e.id, e.priority, true
}
