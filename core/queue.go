package core

// Queue is a header over a shared singly-linked chain of Update records: a
// base state, the normal insertion chain (FirstUpdate..LastUpdate), the
// captured-update chain populated only during error-boundary recovery
// (FirstCapturedUpdate..LastCapturedUpdate), and two effect chains rebuilt
// on every processing pass (FirstEffect.. and FirstCapturedEffect..).
//
// Two node sides (current and work-in-progress) may point at the same
// *Queue value, or at two different headers that share a suffix of the
// same underlying chain by structural sharing — see enqueueUpdate.
type Queue struct {
	BaseState State

	FirstUpdate *Update
	LastUpdate  *Update

	FirstCapturedUpdate *Update
	LastCapturedUpdate  *Update

	FirstEffect *Update
	LastEffect  *Update

	FirstCapturedEffect *Update
	LastCapturedEffect  *Update
}

// CreateQueue returns a header with baseState set and every other field
// nil/empty.
func CreateQueue(baseState State) *Queue {
	return &Queue{BaseState: baseState}
}

// CloneQueue returns a new header whose BaseState, FirstUpdate and
// LastUpdate alias q's (structural sharing of the chain itself — no record
// is copied) and whose captured/effect fields are all empty. Cloning is
// O(1): it creates a new viewport onto the same chain, never a new chain.
func CloneQueue(q *Queue) *Queue {
	return &Queue{
		BaseState:   q.BaseState,
		FirstUpdate: q.FirstUpdate,
		LastUpdate:  q.LastUpdate,
	}
}

// appendUpdate appends u to q's normal chain, updating FirstUpdate when the
// chain was empty.
func appendUpdate(q *Queue, u *Update) {
	if q.LastUpdate == nil {
		q.FirstUpdate = u
	} else {
		q.LastUpdate.Next = u
	}
	q.LastUpdate = u
}

// appendCapturedUpdate appends u to q's captured chain.
func appendCapturedUpdate(q *Queue, u *Update) {
	if q.LastCapturedUpdate == nil {
		q.FirstCapturedUpdate = u
	} else {
		q.LastCapturedUpdate.Next = u
	}
	q.LastCapturedUpdate = u
}

func appendEffect(q *Queue, u *Update) {
	u.NextEffect = nil
	if q.LastEffect == nil {
		q.FirstEffect = u
	} else {
		q.LastEffect.NextEffect = u
	}
	q.LastEffect = u
}

func appendCapturedEffect(q *Queue, u *Update) {
	u.NextEffect = nil
	if q.LastCapturedEffect == nil {
		q.FirstCapturedEffect = u
	} else {
		q.LastCapturedEffect.NextEffect = u
	}
	q.LastCapturedEffect = u
}
