package core

// EnqueueUpdate attaches update to both sides of node's double buffer,
// subject to the structural-sharing rules in §4.3: the committed side must
// see every update so a discarded work-in-progress pass can be re-cloned
// from current without losing anything; the work-in-progress side must see
// every update so a commit never silently drops one either.
//
// ctx may be nil. When non-nil and a ProcessQueue call is currently
// in-flight on ctx (i.e. called reentrantly from inside a reducer), the
// advisory dev-mode hook fires — see diag.Logger.
func EnqueueUpdate(ctx *ProcessContext, node *Node, update *Update) {
	if ctx != nil {
		ctx.warnIfReentrant(node)
	}

	a := node
	b := node.Alternate

	if b == nil {
		q1 := ensureQueue(a)
		appendUpdate(q1, update)
		return
	}

	q1, q2 := a.Queue, b.Queue
	switch {
	case q1 == nil && q2 == nil:
		q1 = ensureQueue(a)
		q2 = ensureQueue(b)
	case q1 == nil:
		q1 = CloneQueue(q2)
		a.Queue = q1
	case q2 == nil:
		q2 = CloneQueue(q1)
		b.Queue = q2
	}

	if q1 == q2 {
		appendUpdate(q1, update)
		return
	}

	if q1.LastUpdate == nil || q2.LastUpdate == nil {
		// Either chain is empty: the same record becomes each chain's
		// tail. appendUpdate on the empty side also sets its FirstUpdate.
		appendUpdate(q1, update)
		appendUpdate(q2, update)
		return
	}

	// Both non-empty: their tails are already the same record by
	// structural sharing. Append once and retarget the other's
	// LastUpdate pointer — appending twice would make the new record
	// its own Next.
	appendUpdate(q1, update)
	q2.LastUpdate = update
}

// ensureQueue returns node's queue header, creating one from its current
// memoized state if none exists.
func ensureQueue(node *Node) *Queue {
	if node.Queue == nil {
		node.Queue = CreateQueue(node.MemoizedState)
	}
	return node.Queue
}

// EnqueueCapturedUpdate appends update to the work-in-progress side's
// captured chain only. Before appending, the work-in-progress queue is
// forced to be a fresh clone — i.e. not object-identical to the committed
// queue — so captured updates never leak into the committed view ahead of
// commit.
func EnqueueCapturedUpdate(workInProgress *Node, update *Update) {
	queue := workInProgress.Queue
	current := workInProgress.Alternate

	if queue == nil {
		queue = CreateQueue(workInProgress.MemoizedState)
		workInProgress.Queue = queue
	} else if current != nil && current.Queue == queue {
		queue = CloneQueue(queue)
		workInProgress.Queue = queue
	}

	appendCapturedUpdate(queue, update)
}
