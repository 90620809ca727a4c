package core

import (
	"errors"
	"testing"

	"github.com/fiberqueue/updatequeue/errs"
)

func TestProcessQueue_ReducerPanicWrapped(t *testing.T) {
	node := NewNode(FunctionNode, State{})
	node.Queue = CreateQueue(State{})

	u := CreateUpdate(prioHigh)
	u.Payload = ReducerFunc(func(_ Instance, _ State, _ Props) State {
		panic("boom")
	})
	EnqueueUpdate(nil, node, u)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic, got none")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("recovered value is not an error: %v", r)
		}
		if !errors.Is(err, errs.ErrReducerPanicked) {
			t.Errorf("recovered error does not wrap ErrReducerPanicked: %v", err)
		}
	}()

	ProcessQueue(nil, node, nil, nil, prioHigh)
	t.Fatalf("ProcessQueue returned without panicking")
}

func TestProcessQueue_InvalidPayloadNotMaskedAsReducerPanic(t *testing.T) {
	node := NewNode(FunctionNode, State{})
	node.Queue = CreateQueue(State{})

	u := CreateUpdate(prioHigh)
	u.Payload = 42 // not a State, ReducerFunc, RootPayload, or nil
	EnqueueUpdate(nil, node, u)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic, got none")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("recovered value is not an error: %v", r)
		}
		if !errors.Is(err, errs.ErrInvalidPayload) {
			t.Errorf("recovered error does not wrap ErrInvalidPayload: %v", err)
		}
		if errors.Is(err, errs.ErrReducerPanicked) {
			t.Errorf("invalid-payload panic must not also present as ErrReducerPanicked")
		}
	}()

	ProcessQueue(nil, node, nil, nil, prioHigh)
	t.Fatalf("ProcessQueue returned without panicking")
}
