// Package common holds the small set of types shared across the update
// queue: the priority ordinal and the sentinel that denotes no pending work.
package common

// Priority is an opaque, scheduler-assigned ordinal. Higher values mean
// higher priority. The queue never computes a Priority itself — it is
// always supplied by the caller (the expiration-time source lives outside
// this module, per the out-of-scope collaborators).
type Priority uint64

// NoWork is the sentinel meaning "no remaining work at any priority".
const NoWork Priority = 0

// Sufficient reports whether an update carrying this priority should be
// applied when rendering at renderPriority: updatePriority >= renderPriority.
func (p Priority) Sufficient(renderPriority Priority) bool {
	return p >= renderPriority
}

// Higher reports whether p outranks other, i.e. should take precedence as a
// residual priority.
func (p Priority) Higher(other Priority) bool {
	return p > other
}
