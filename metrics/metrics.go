// Package metrics wraps github.com/prometheus/client_golang for the
// counters and histograms spec.md's observability section names: updates
// enqueued/applied/skipped per priority, pass duration, and outstanding
// queue depth. Every collector is registered against a caller-supplied
// prometheus.Registerer, never promauto's global default, so the core
// stays embeddable in a host that already owns its own registry.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fiberqueue/updatequeue/common"
)

// Set is the collectors one processing host needs. Construct one per
// registry with New, not per node.
type Set struct {
	UpdatesEnqueued *prometheus.CounterVec
	UpdatesApplied  *prometheus.CounterVec
	UpdatesSkipped  *prometheus.CounterVec
	PassDuration    prometheus.Histogram
	QueueDepth      prometheus.Gauge
	Commits         prometheus.Counter
	CommitErrors    prometheus.Counter
}

// New registers a Set's collectors against reg and returns it. Calling New
// twice against the same reg with the same namespace panics, matching
// prometheus.Registerer's own duplicate-registration behavior — callers
// own exactly one Set per registry.
func New(reg prometheus.Registerer, namespace string) *Set {
	s := &Set{
		UpdatesEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_enqueued_total",
			Help:      "Updates enqueued, labeled by priority.",
		}, []string{"priority"}),
		UpdatesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_applied_total",
			Help:      "Updates applied during a processing pass, labeled by priority.",
		}, []string{"priority"}),
		UpdatesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_skipped_total",
			Help:      "Updates skipped (insufficient priority) during a processing pass, labeled by priority.",
		}, []string{"priority"}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Wall-clock duration of a single ProcessQueue call.",
			Buckets:   prometheus.DefBuckets,
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Pending update records across the update chain, sampled after the last pass.",
		}),
		Commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "CommitQueue calls observed.",
		}),
		CommitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commit_errors_total",
			Help:      "CommitQueue calls that returned a non-nil error.",
		}),
	}
	reg.MustRegister(s.UpdatesEnqueued, s.UpdatesApplied, s.UpdatesSkipped, s.PassDuration, s.QueueDepth, s.Commits, s.CommitErrors)
	return s
}

func priorityLabel(p common.Priority) string {
	return strconv.FormatUint(uint64(p), 10)
}

// ObserveEnqueue records one enqueued update at priority p.
func (s *Set) ObserveEnqueue(p common.Priority) {
	s.UpdatesEnqueued.WithLabelValues(priorityLabel(p)).Inc()
}

// ObserveApplied records one applied update at priority p.
func (s *Set) ObserveApplied(p common.Priority) {
	s.UpdatesApplied.WithLabelValues(priorityLabel(p)).Inc()
}

// ObserveSkipped records one skipped update at priority p.
func (s *Set) ObserveSkipped(p common.Priority) {
	s.UpdatesSkipped.WithLabelValues(priorityLabel(p)).Inc()
}

// ObserveCommit records one CommitQueue outcome.
func (s *Set) ObserveCommit(err error) {
	s.Commits.Inc()
	if err != nil {
		s.CommitErrors.Inc()
	}
}

// Timer returns a func that, when called, records the elapsed time since
// Timer was called as one PassDuration observation. Typical use:
// defer metrics.Timer(set)().
func Timer(s *Set) func() {
	start := time.Now()
	return func() {
		s.PassDuration.Observe(time.Since(start).Seconds())
	}
}

// SetQueueDepth sets the current outstanding-update gauge.
func (s *Set) SetQueueDepth(depth int) {
	s.QueueDepth.Set(float64(depth))
}
