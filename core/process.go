package core

import (
	"errors"
	"fmt"

	"github.com/fiberqueue/updatequeue/common"
	"github.com/fiberqueue/updatequeue/errs"
	"github.com/fiberqueue/updatequeue/logging"
)

// PassStats summarizes one ProcessQueue call for callers that want to feed
// it to metrics or diagnostics (see metrics.Set.ObserveApplied/ObserveSkipped
// and diag.PassRecord) without re-walking the queue themselves.
type PassStats struct {
	Applied int
	Skipped int
}

// ProcessQueue folds workInProgress's queue against renderPriority,
// producing a new memoized state, a new base state, a residual queue of
// skipped updates, a residual priority, and the effect chains fired on
// commit. It never mutates committed records: if workInProgress currently
// shares its queue object with its alternate, the queue is cloned first
// (ensureQueueIsClone), and everything below operates on that clone.
//
// ctx may be nil, in which case the package-level default context is used.
// ProcessQueue panics if workInProgress has no queue — callers should check
// workInProgress.Queue != nil (or just not call ProcessQueue when there is
// nothing enqueued).
func ProcessQueue(ctx *ProcessContext, workInProgress *Node, props Props, instance Instance, renderPriority common.Priority) PassStats {
	if ctx == nil {
		ctx = defaultContext
	}
	if workInProgress.Queue == nil {
		panic(fmt.Errorf("%w: no queue on node", errs.ErrEmptyQueue))
	}

	ctx.ResetHasForceUpdate()
	queue := ensureQueueIsClone(workInProgress)

	ctx.currentlyProcessingQueue = queue
	ctx.currentlyProcessingNode = workInProgress
	defer func() {
		ctx.currentlyProcessingQueue = nil
		ctx.currentlyProcessingNode = nil
	}()

	resultState := queue.BaseState
	newBaseState := queue.BaseState
	var newFirstUpdate *Update
	newResidualPriority := common.NoWork

	queue.FirstEffect, queue.LastEffect = nil, nil
	queue.FirstCapturedEffect, queue.LastCapturedEffect = nil, nil

	stats := PassStats{}

	normalSkipped := false
	for update := queue.FirstUpdate; update != nil; update = update.Next {
		if !update.Priority.Sufficient(renderPriority) {
			if newFirstUpdate == nil {
				newFirstUpdate = update
				newBaseState = resultState
			}
			if update.Priority.Higher(newResidualPriority) {
				newResidualPriority = update.Priority
			}
			normalSkipped = true
			stats.Skipped++
			continue
		}
		resultState = safeApplyUpdate(ctx, update, resultState, props, instance, workInProgress)
		stats.Applied++
		if update.Callback != nil {
			workInProgress.EffectFlags |= FlagCallback | FlagEffectPending
			appendEffect(queue, update)
		}
	}

	var newFirstCapturedUpdate *Update
	capturedSkipped := false
	for update := queue.FirstCapturedUpdate; update != nil; update = update.Next {
		if !update.Priority.Sufficient(renderPriority) {
			if newFirstCapturedUpdate == nil {
				newFirstCapturedUpdate = update
				if !normalSkipped {
					newBaseState = resultState
				}
			}
			if update.Priority.Higher(newResidualPriority) {
				newResidualPriority = update.Priority
			}
			capturedSkipped = true
			stats.Skipped++
			continue
		}
		resultState = safeApplyUpdate(ctx, update, resultState, props, instance, workInProgress)
		stats.Applied++
		if update.Callback != nil {
			workInProgress.EffectFlags |= FlagCallback | FlagEffectPending
			appendCapturedEffect(queue, update)
		}
	}

	if normalSkipped || capturedSkipped {
		logging.Debug("processQueue: pass skipped updates",
			"node", workInProgress.TraceID,
			"renderPriority", renderPriority,
			"residualPriority", newResidualPriority,
			"applied", stats.Applied,
			"skipped", stats.Skipped,
		)
	}

	// §3 invariant 4 / §9 open question: baseState advances to the final
	// result only when *neither* loop skipped anything. Otherwise it was
	// already frozen above, at whichever loop hit its first skip first.
	if !normalSkipped && !capturedSkipped {
		newBaseState = resultState
	}

	if newFirstUpdate == nil {
		queue.LastUpdate = nil
	}
	if newFirstCapturedUpdate == nil {
		queue.LastCapturedUpdate = nil
	} else {
		workInProgress.EffectFlags |= FlagEffectPending
	}
	if queue.FirstCapturedEffect != nil {
		workInProgress.EffectFlags |= FlagEffectPending
	}

	queue.BaseState = newBaseState
	queue.FirstUpdate = newFirstUpdate
	queue.FirstCapturedUpdate = newFirstCapturedUpdate

	workInProgress.ResidualPriority = newResidualPriority
	workInProgress.MemoizedState = resultState

	return stats
}

// ensureQueueIsClone returns a queue for node guaranteed not to be
// object-identical to node.Alternate's queue, cloning lazily if needed.
// This is what makes a discarded work-in-progress pass harmless: nothing
// the processor writes can be observed through the committed side.
func ensureQueueIsClone(node *Node) *Queue {
	queue := node.Queue
	if current := node.Alternate; current != nil && current.Queue == queue {
		queue = CloneQueue(queue)
		node.Queue = queue
	}
	return queue
}

// safeApplyUpdate recovers a panicking reducer payload and re-raises it
// wrapped with ErrReducerPanicked and the offending update's tag/priority,
// so the panic that reaches the host (one frame above ProcessQueue) carries
// enough context to locate the violating reducer.
func safeApplyUpdate(ctx *ProcessContext, update *Update, prevState State, props Props, instance Instance, node *Node) (next State) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && errors.Is(err, errs.ErrInvalidPayload) {
				panic(err)
			}
			panic(fmt.Errorf("%w: tag %v priority %v: %v", errs.ErrReducerPanicked, update.Tag, update.Priority, r))
		}
	}()
	return applyUpdate(ctx, update, prevState, props, instance, node)
}

// applyUpdate dispatches on update.Tag per §4.5.
func applyUpdate(ctx *ProcessContext, update *Update, prevState State, props Props, instance Instance, node *Node) State {
	switch update.Tag {
	case ReplaceState:
		// Unlike UpdateState, a nil-resolving replacer really does replace
		// the state with nil — no prevState fallback. See §4.5.
		return resolvePayload(update.Payload, instance, prevState, props)

	case CaptureUpdate:
		node.EffectFlags &^= FlagShouldCapture
		node.EffectFlags |= FlagDidCapture
		fallthrough

	case UpdateState:
		partial := resolvePayload(update.Payload, instance, prevState, props)
		if partial == nil {
			return prevState
		}
		return mergeState(prevState, partial)

	case ForceUpdate:
		ctx.hasForceUpdate = true
		return prevState

	default:
		panic(fmt.Errorf("%w: tag %v", errs.ErrInvalidPayload, update.Tag))
	}
}

// resolvePayload calls a ReducerFunc payload with (instance, prevState,
// props), unwraps a RootPayload to its element-carrying fragment, passes a
// State payload through unchanged, and panics on anything else — matching
// the Misuse taxonomy of §7 (invalid payload type is not recoverable by the
// core).
func resolvePayload(payload any, instance Instance, prevState State, props Props) State {
	switch p := payload.(type) {
	case nil:
		return nil
	case State:
		return p
	case ReducerFunc:
		return p(instance, prevState, props)
	case func(Instance, State, Props) State:
		return ReducerFunc(p)(instance, prevState, props)
	case RootPayload:
		return State{"element": p.Element}
	default:
		panic(fmt.Errorf("%w: payload of type %T is neither a State, a ReducerFunc, nor nil", errs.ErrInvalidPayload, payload))
	}
}
