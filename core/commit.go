package core

import (
	"fmt"

	"github.com/fiberqueue/updatequeue/errs"
)

// CommitQueue runs the commit-phase side effects of a processed queue:
// splicing any captured chain back onto the tail of the normal chain (so a
// lower-priority re-render rebases it), then firing callbacks — normal
// effects before captured effects, each exactly once.
//
// A callback that panics does not stop the remaining callbacks from firing
// and cannot be invoked twice: the core clears Callback before invoking it.
// Every panic is recovered and returned, in effect order, as a single
// joined error (nil if nothing failed).
func CommitQueue(queue *Queue, instance Instance) error {
	if queue.FirstCapturedUpdate != nil {
		if queue.LastUpdate == nil {
			queue.FirstUpdate = queue.FirstCapturedUpdate
		} else {
			queue.LastUpdate.Next = queue.FirstCapturedUpdate
		}
		queue.LastUpdate = queue.LastCapturedUpdate
		queue.FirstCapturedUpdate = nil
		queue.LastCapturedUpdate = nil
	}

	var errsFired []error
	errsFired = append(errsFired, commitEffectChain(queue.FirstEffect, instance)...)
	queue.FirstEffect, queue.LastEffect = nil, nil

	errsFired = append(errsFired, commitEffectChain(queue.FirstCapturedEffect, instance)...)
	queue.FirstCapturedEffect, queue.LastCapturedEffect = nil, nil

	return joinErrors(errsFired)
}

func commitEffectChain(first *Update, instance Instance) []error {
	var out []error
	for update := first; update != nil; {
		next := update.NextEffect
		update.NextEffect = nil

		if cb := update.Callback; cb != nil {
			update.Callback = nil
			if err := invokeCallback(cb, instance); err != nil {
				out = append(out, err)
			}
		}
		update = next
	}
	return out
}

func invokeCallback(cb func(Instance), instance Instance) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errs.ErrCallbackPanicked, r)
		}
	}()
	cb(instance)
	return nil
}

func joinErrors(errsFired []error) error {
	switch len(errsFired) {
	case 0:
		return nil
	case 1:
		return errsFired[0]
	default:
		msg := fmt.Sprintf("%d commit callbacks failed: ", len(errsFired))
		for i, e := range errsFired {
			if i > 0 {
				msg += "; "
			}
			msg += e.Error()
		}
		return fmt.Errorf("%s", msg)
	}
}
