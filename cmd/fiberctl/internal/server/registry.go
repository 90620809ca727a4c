package server

import (
	"sync"

	"github.com/fiberqueue/updatequeue/common"
	"github.com/fiberqueue/updatequeue/core"
)

// NodeSnapshot is the JSON view GET /queues/{node} serves: a node's queue
// depth, residual priority and base state as of the last time the driver
// refreshed it. It is a point-in-time copy, not a live view onto the node.
type NodeSnapshot struct {
	QueueDepth       int             `json:"queue_depth"`
	ResidualPriority common.Priority `json:"residual_priority"`
	BaseState        core.State      `json:"base_state"`
}

// NodeRegistry is the concurrency-safe store of per-node snapshots behind
// /queues/{node}. A driver calls Update after every ProcessQueue/CommitQueue
// cycle; handleQueue only ever reads it.
type NodeRegistry struct {
	mu    sync.RWMutex
	nodes map[string]NodeSnapshot
}

// NewNodeRegistry returns an empty registry.
func NewNodeRegistry() *NodeRegistry {
	return &NodeRegistry{nodes: make(map[string]NodeSnapshot)}
}

// Update records node's current state under id, counting its normal and
// captured update chains for QueueDepth.
func (r *NodeRegistry) Update(id string, node *core.Node) {
	depth := 0
	for u := node.Queue.FirstUpdate; u != nil; u = u.Next {
		depth++
	}
	for u := node.Queue.FirstCapturedUpdate; u != nil; u = u.Next {
		depth++
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[id] = NodeSnapshot{
		QueueDepth:       depth,
		ResidualPriority: node.ResidualPriority,
		BaseState:        node.Queue.BaseState,
	}
}

// Get returns id's most recent snapshot. ok is false for an id never passed
// to Update.
func (r *NodeRegistry) Get(id string) (NodeSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.nodes[id]
	return v, ok
}
