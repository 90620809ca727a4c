package core

// State is a node's folded state: the result of applying every sufficient-
// priority update in a queue to a base state. Update payloads that are
// partial fragments are shallow-merged into a State (see applyUpdate).
type State map[string]any

// Props are the properties a node was most recently rendered with; they are
// passed, read-only, to a payload's reducer function.
type Props map[string]any

// Instance is the host component instance a callback is invoked with. The
// queue never inspects it — it is opaque, forwarded verbatim.
type Instance any

// ReducerFunc computes a partial (UpdateState/CaptureUpdate) or full
// (ReplaceState) next state from the previous state and current props. It
// receives instance as its call receiver, mirroring payload.call(instance,
// prevState, nextProps) in the reference implementation.
type ReducerFunc func(instance Instance, prevState State, nextProps Props) State

// RootPayload is the payload convention for the root of the tree: it
// carries a new top-level element rather than a state fragment.
type RootPayload struct {
	Element any
}

// Clone returns a shallow copy of s. Used wherever a State must be handed
// out without letting the caller mutate the queue's folded state in place.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// mergeState shallow-merges partial over prev: keys in partial win.
func mergeState(prev, partial State) State {
	merged := make(State, len(prev)+len(partial))
	for k, v := range prev {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	return merged
}
