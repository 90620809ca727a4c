package schedule

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// EffectPendingSet tracks which nodes currently have a pending commit (the
// FlagEffectPending bit from spec.md §6) across a processing sweep. The
// core itself only ever sets that per-node bit; this is a convenience
// index over nodes a host is already driving, so it can ask "which of the
// nodes I just processed need a commit" in O(1) per membership test
// instead of re-walking its own node list and re-checking flags.
type EffectPendingSet struct {
	set mapset.Set[NodeID]
}

// NewEffectPendingSet returns an empty set.
func NewEffectPendingSet() *EffectPendingSet {
	return &EffectPendingSet{set: mapset.NewThreadUnsafeSet[NodeID]()}
}

// Mark records that nodeID has a pending commit.
func (s *EffectPendingSet) Mark(nodeID NodeID) { s.set.Add(nodeID) }

// Clear records that nodeID's pending commit has been handled (after
// CommitQueue runs for it).
func (s *EffectPendingSet) Clear(nodeID NodeID) { s.set.Remove(nodeID) }

// Pending reports whether nodeID is currently marked.
func (s *EffectPendingSet) Pending(nodeID NodeID) bool { return s.set.Contains(nodeID) }

// Len reports how many nodes are currently marked.
func (s *EffectPendingSet) Len() int { return s.set.Cardinality() }

// Members returns every currently-marked node id, in unspecified order.
func (s *EffectPendingSet) Members() []NodeID { return s.set.ToSlice() }
