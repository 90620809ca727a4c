package core

// ReentrancyHook receives the advisory warning described in §6: a
// development-mode "currently processing" pointer lets the host detect
// enqueueUpdate being called synchronously from inside a reducer function.
// It is purely diagnostic; nothing about its absence changes correctness.
// diag.Logger implements this interface — core does not import diag, to
// keep the dependency direction leaf-to-root.
type ReentrancyHook interface {
	WarnReentrantEnqueue(node *Node)
}

// ProcessContext carries the process-scoped state that the reference
// design keeps as module-level globals (hasForceUpdate, the dev-mode
// "currently processing" pointer). Passing it explicitly keeps the core
// reentrant across independent hosts sharing one process, per the design
// note in spec.md §9: prefer a mutable context over true global state.
type ProcessContext struct {
	hasForceUpdate           bool
	currentlyProcessingQueue *Queue
	currentlyProcessingNode  *Node

	// Hook, if set, is notified on a reentrant EnqueueUpdate call. Only
	// ClassNode bindings trigger it — see §6.
	Hook ReentrancyHook
}

// NewProcessContext returns a zero-valued, ready-to-use context.
func NewProcessContext() *ProcessContext {
	return &ProcessContext{}
}

// ResetHasForceUpdate clears the force-update flag. ProcessQueue calls this
// itself as a preamble; hosts may also call it directly to book-end a pass
// per §4.7, the call is idempotent.
func (c *ProcessContext) ResetHasForceUpdate() {
	c.hasForceUpdate = false
}

// ConsumeHasForceUpdate reports whether a ForceUpdate record was applied
// during the most recent pass, and clears the flag.
func (c *ProcessContext) ConsumeHasForceUpdate() bool {
	v := c.hasForceUpdate
	c.hasForceUpdate = false
	return v
}

// CurrentlyProcessing returns the queue ProcessQueue is presently folding,
// or nil when no pass is in flight on this context.
func (c *ProcessContext) CurrentlyProcessing() *Queue {
	return c.currentlyProcessingQueue
}

func (c *ProcessContext) warnIfReentrant(node *Node) {
	if c.Hook == nil || c.currentlyProcessingQueue == nil {
		return
	}
	if c.currentlyProcessingNode != nil && c.currentlyProcessingNode.Tag == ClassNode {
		c.Hook.WarnReentrantEnqueue(c.currentlyProcessingNode)
	}
}

// defaultContext backs the package-level convenience functions for callers
// that don't need multiple independent hosts in one process.
var defaultContext = NewProcessContext()

// DefaultContext returns the package-level singleton ProcessContext.
func DefaultContext() *ProcessContext { return defaultContext }

// ResetHasForceUpdate clears the force-update flag on the default context.
func ResetHasForceUpdate() { defaultContext.ResetHasForceUpdate() }

// ConsumeHasForceUpdate reports and clears the force-update flag on the
// default context.
func ConsumeHasForceUpdate() bool { return defaultContext.ConsumeHasForceUpdate() }
