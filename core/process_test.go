package core

import (
	"testing"

	"github.com/fiberqueue/updatequeue/common"
)

const (
	prioLow  common.Priority = 1
	prioHigh common.Priority = 2
)

func partial(k string, v any) State {
	return State{k: v}
}

// S1 — merging two UpdateState records at the same priority.
func TestProcessQueue_Merge(t *testing.T) {
	node := NewNode(FunctionNode, State{})
	node.Queue = CreateQueue(State{})

	u1 := CreateUpdate(prioHigh)
	u1.Payload = partial("a", 1)
	u2 := CreateUpdate(prioHigh)
	u2.Payload = partial("b", 2)

	EnqueueUpdate(nil, node, u1)
	EnqueueUpdate(nil, node, u2)

	ProcessQueue(nil, node, nil, nil, prioHigh)

	if got, want := node.MemoizedState["a"], 1; got != want {
		t.Errorf("a = %v, want %v", got, want)
	}
	if got, want := node.MemoizedState["b"], 2; got != want {
		t.Errorf("b = %v, want %v", got, want)
	}
	if len(node.Queue.BaseState) != 2 {
		t.Errorf("baseState not advanced: %v", node.Queue.BaseState)
	}
	if node.Queue.FirstUpdate != nil {
		t.Errorf("chain not drained: %v", node.Queue.FirstUpdate)
	}
}

// S2 — ReplaceState discards the prior UpdateState entirely.
func TestProcessQueue_Replace(t *testing.T) {
	node := NewNode(FunctionNode, State{})
	node.Queue = CreateQueue(State{})

	u1 := CreateUpdate(prioHigh)
	u1.Payload = partial("a", 1)
	u2 := CreateUpdate(prioHigh)
	u2.Tag = ReplaceState
	u2.Payload = partial("b", 2)

	EnqueueUpdate(nil, node, u1)
	EnqueueUpdate(nil, node, u2)

	ProcessQueue(nil, node, nil, nil, prioHigh)

	if _, ok := node.MemoizedState["a"]; ok {
		t.Errorf("replaced state still has key a: %v", node.MemoizedState)
	}
	if got, want := node.MemoizedState["b"], 2; got != want {
		t.Errorf("b = %v, want %v", got, want)
	}
}

// S3 — rebase: process at high priority first (skipping the low-priority
// interleaved updates), then at low priority, and check both intermediate
// and final results plus the residual-priority/chain bookkeeping.
func TestProcessQueue_Rebase(t *testing.T) {
	letter := func(l string) ReducerFunc {
		return func(_ Instance, prev State, _ Props) State {
			s := prev["s"].(string) + l
			return State{"s": s}
		}
	}

	node := NewNode(FunctionNode, State{"s": ""})
	node.Queue = CreateQueue(State{"s": ""})

	a := CreateUpdate(prioLow)
	a.Payload = letter("A")
	b := CreateUpdate(prioHigh)
	b.Payload = letter("B")
	c := CreateUpdate(prioLow)
	c.Payload = letter("C")
	d := CreateUpdate(prioHigh)
	d.Payload = letter("D")

	for _, u := range []*Update{a, b, c, d} {
		EnqueueUpdate(nil, node, u)
	}

	ProcessQueue(nil, node, nil, nil, prioHigh)
	if got, want := node.MemoizedState["s"], "BD"; got != want {
		t.Errorf("pass 1 memoizedState = %q, want %q", got, want)
	}
	if got, want := node.Queue.BaseState["s"], ""; got != want {
		t.Errorf("pass 1 baseState = %q, want %q", got, want)
	}
	if got, want := node.ResidualPriority, prioLow; got != want {
		t.Errorf("residual priority = %v, want %v", got, want)
	}
	if node.Queue.FirstUpdate != a {
		t.Errorf("chain should retain all 4 updates starting at A, got first = %v", node.Queue.FirstUpdate)
	}

	ProcessQueue(nil, node, nil, nil, prioLow)
	if got, want := node.MemoizedState["s"], "ABCD"; got != want {
		t.Errorf("pass 2 memoizedState = %q, want %q", got, want)
	}
	if got, want := node.Queue.BaseState["s"], "ABCD"; got != want {
		t.Errorf("pass 2 baseState = %q, want %q", got, want)
	}
	if node.Queue.FirstUpdate != nil {
		t.Errorf("chain not drained after full-priority pass")
	}
	if node.ResidualPriority != common.NoWork {
		t.Errorf("residual priority = %v, want NoWork", node.ResidualPriority)
	}
}

// S4 — ForceUpdate leaves state untouched but flips the force-update flag.
func TestProcessQueue_ForceUpdate(t *testing.T) {
	node := NewNode(FunctionNode, State{"a": 1})
	node.Queue = CreateQueue(State{"a": 1})

	u := CreateUpdate(prioHigh)
	u.Tag = ForceUpdate
	EnqueueUpdate(nil, node, u)

	ctx := NewProcessContext()
	ProcessQueue(ctx, node, nil, nil, prioHigh)

	if got, want := node.MemoizedState["a"], 1; got != want {
		t.Errorf("state mutated by ForceUpdate: %v", node.MemoizedState)
	}
	if !ctx.ConsumeHasForceUpdate() {
		t.Errorf("ConsumeHasForceUpdate() = false, want true")
	}
	if ctx.ConsumeHasForceUpdate() {
		t.Errorf("ConsumeHasForceUpdate() should clear after first read")
	}
}

// S5 — a callback fires exactly once, with the supplied instance, and is
// cleared from both the effect chain and the record after commit.
func TestProcessQueue_Callback(t *testing.T) {
	node := NewNode(FunctionNode, State{})
	node.Queue = CreateQueue(State{})

	var fired int
	var seen Instance
	u := CreateUpdate(prioHigh)
	u.Payload = partial("a", 1)
	u.Callback = func(instance Instance) {
		fired++
		seen = instance
	}
	EnqueueUpdate(nil, node, u)

	ProcessQueue(nil, node, nil, nil, prioHigh)
	if node.Queue.FirstEffect != u {
		t.Fatalf("callback-bearing update not queued as an effect")
	}

	instance := "the-instance"
	if err := CommitQueue(node.Queue, instance); err != nil {
		t.Fatalf("CommitQueue: %v", err)
	}

	if fired != 1 {
		t.Errorf("callback fired %d times, want 1", fired)
	}
	if seen != instance {
		t.Errorf("callback instance = %v, want %v", seen, instance)
	}
	if node.Queue.FirstEffect != nil {
		t.Errorf("effect chain not cleared after commit")
	}
	if u.Callback != nil {
		t.Errorf("record callback not cleared after commit")
	}
}

// S6 — a captured update folds into state, sets DidCapture/clears
// ShouldCapture, and is spliced into the normal chain on commit.
func TestProcessQueue_Capture(t *testing.T) {
	node := NewNode(ClassNode, State{})
	node.EffectFlags |= FlagShouldCapture
	node.Queue = CreateQueue(State{})

	normal := CreateUpdate(prioHigh)
	normal.Payload = partial("a", 1)
	EnqueueUpdate(nil, node, normal)

	captured := CreateUpdate(prioHigh)
	captured.Tag = CaptureUpdate
	captured.Payload = partial("err", true)
	EnqueueCapturedUpdate(node, captured)

	ProcessQueue(nil, node, nil, nil, prioHigh)

	if got, want := node.MemoizedState["a"], 1; got != want {
		t.Errorf("a = %v, want %v", got, want)
	}
	if got, want := node.MemoizedState["err"], true; got != want {
		t.Errorf("err = %v, want %v", got, want)
	}
	if !node.EffectFlags.Has(FlagDidCapture) {
		t.Errorf("DidCapture not set")
	}
	if node.EffectFlags.Has(FlagShouldCapture) {
		t.Errorf("ShouldCapture not cleared")
	}

	if err := CommitQueue(node.Queue, nil); err != nil {
		t.Fatalf("CommitQueue: %v", err)
	}
	if node.Queue.FirstCapturedUpdate != nil {
		t.Errorf("captured chain not cleared after splice")
	}
}

// Invariant 2: FirstUpdate == nil iff LastUpdate == nil (and same for
// captured/effect chains) at every observable boundary.
func TestQueue_NilPairingInvariant(t *testing.T) {
	q := CreateQueue(State{})
	if (q.FirstUpdate == nil) != (q.LastUpdate == nil) {
		t.Fatalf("fresh queue violates nil-pairing invariant")
	}
	u := CreateUpdate(prioHigh)
	appendUpdate(q, u)
	if (q.FirstUpdate == nil) != (q.LastUpdate == nil) {
		t.Fatalf("after append, nil-pairing invariant violated")
	}
}

// Invariant 5: after enqueueUpdate on a node with two sides, both sides'
// LastUpdate point at the same record.
func TestEnqueueUpdate_StructuralSharing(t *testing.T) {
	current := NewNode(FunctionNode, State{})
	wip := EnsureAlternate(current)

	u1 := CreateUpdate(prioHigh)
	EnqueueUpdate(nil, current, u1)

	if current.Queue == nil || wip.Queue == nil {
		t.Fatalf("expected both sides to have a queue after first enqueue")
	}
	if current.Queue.LastUpdate != wip.Queue.LastUpdate {
		t.Fatalf("tails diverge after first enqueue")
	}

	u2 := CreateUpdate(prioHigh)
	EnqueueUpdate(nil, wip, u2)
	if current.Queue.LastUpdate != wip.Queue.LastUpdate {
		t.Fatalf("tails diverge after second enqueue: current=%p wip=%p", current.Queue.LastUpdate, wip.Queue.LastUpdate)
	}
	if current.Queue.LastUpdate != u2 {
		t.Fatalf("committed side did not observe update enqueued on work-in-progress side")
	}
}

// Invariant 6 / clone isolation: captured updates on a work-in-progress
// clone must not be observable through the committed side before commit.
func TestEnqueueCapturedUpdate_CloneIsolation(t *testing.T) {
	current := NewNode(ClassNode, State{})
	wip := EnsureAlternate(current)

	base := CreateUpdate(prioHigh)
	EnqueueUpdate(nil, current, base)

	if current.Queue == wip.Queue {
		t.Fatalf("expected distinct queue headers after pairing, got shared object")
	}

	captured := CreateUpdate(prioHigh)
	captured.Tag = CaptureUpdate
	EnqueueCapturedUpdate(wip, captured)

	if current.Queue.FirstCapturedUpdate != nil {
		t.Fatalf("captured update leaked into committed queue")
	}
	if wip.Queue.FirstCapturedUpdate != captured {
		t.Fatalf("captured update missing from work-in-progress queue")
	}
}

// Discarding a work-in-progress pass (re-cloning from current) must have
// zero persistent effect on committed state.
func TestProcessQueue_DiscardedPassIsHarmless(t *testing.T) {
	current := NewNode(FunctionNode, State{"a": 0})
	wip := EnsureAlternate(current)
	current.Queue = CreateQueue(State{"a": 0})
	wip.Queue = current.Queue

	u := CreateUpdate(prioHigh)
	u.Payload = partial("a", 1)
	EnqueueUpdate(nil, wip, u)

	ProcessQueue(nil, wip, nil, nil, prioHigh)
	if wip.Queue == current.Queue {
		t.Fatalf("processor must have cloned before mutating")
	}
	if current.MemoizedState["a"] != 0 {
		t.Fatalf("committed side mutated by a discarded pass")
	}

	// Discard: restart work-in-progress from current.
	wip.Queue = CloneQueue(current.Queue)
	wip.MemoizedState = current.MemoizedState
	if wip.Queue.FirstUpdate != u {
		t.Fatalf("restarted pass should still see the pending update (nothing lost), got first = %v", wip.Queue.FirstUpdate)
	}
}
