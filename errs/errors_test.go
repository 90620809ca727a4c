package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinels_AreDistinctAndWrappable(t *testing.T) {
	all := []error{ErrInvalidPayload, ErrInvalidCallback, ErrEmptyQueue, ErrCallbackPanicked, ErrReducerPanicked}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v and %v are not distinct", a, b)
			}
		}
	}

	wrapped := fmt.Errorf("context: %w", ErrEmptyQueue)
	if !errors.Is(wrapped, ErrEmptyQueue) {
		t.Errorf("wrapped error lost errors.Is() match against ErrEmptyQueue")
	}
}
