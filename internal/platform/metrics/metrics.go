package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	TreesBuilt           prometheus.Counter
	TreeNodes            prometheus.Histogram
	ParticipantOutcomes  *prometheus.CounterVec
	ReviewResolutions    *prometheus.CounterVec
	ParentConflicts      prometheus.Counter
	RecordSearchDuration prometheus.Histogram
	RebuildFailures      prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TreesBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lineage_trees_built_total",
			Help: "Total number of family trees built",
		}),
		TreeNodes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lineage_tree_nodes",
			Help:    "Node count of built family trees",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		ParticipantOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_participant_reconcile_total",
			Help: "Participant reconciliations by outcome",
		}, []string{"outcome"}),
		ReviewResolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_review_resolutions_total",
			Help: "Review resolutions by entity and terminal status",
		}, []string{"entity", "status"}),
		ParentConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lineage_family_parent_conflicts_total",
			Help: "Family summaries that dropped a duplicate same-gender parent edge",
		}),
		RecordSearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lineage_record_search_duration_seconds",
			Help:    "Latency of record search queries",
			Buckets: prometheus.DefBuckets,
		}),
		RebuildFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lineage_relationship_rebuild_failures_total",
			Help: "Failed relationship rebuild calls",
		}),
	}
}

// ObserveRecordSearch records one record search duration.
func (m *Metrics) ObserveRecordSearch(d time.Duration) {
	if m == nil {
		return
	}
	m.RecordSearchDuration.Observe(d.Seconds())
}

// RecordParticipantOutcome counts a reconciliation outcome
// (cleared, inserted, unchanged, updated, repaired).
func (m *Metrics) RecordParticipantOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ParticipantOutcomes.WithLabelValues(outcome).Inc()
}

// RecordReviewResolution counts a terminal review transition.
func (m *Metrics) RecordReviewResolution(entity, status string) {
	if m == nil {
		return
	}
	m.ReviewResolutions.WithLabelValues(entity, status).Inc()
}

// RecordTree counts one built tree and observes its size.
func (m *Metrics) RecordTree(nodes int) {
	if m == nil {
		return
	}
	m.TreesBuilt.Inc()
	m.TreeNodes.Observe(float64(nodes))
}

// RecordParentConflict counts a dropped duplicate parent edge.
func (m *Metrics) RecordParentConflict() {
	if m == nil {
		return
	}
	m.ParentConflicts.Inc()
}

// RecordRebuildFailure counts a failed rebuild call.
func (m *Metrics) RecordRebuildFailure() {
	if m == nil {
		return
	}
	m.RebuildFailures.Inc()
}
