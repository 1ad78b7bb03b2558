// Package metrics exposes Prometheus collectors for posting and application workflow events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

const namespace = "raxatjob"

var (
	moderationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_transitions_total",
		Help:      "Moderation actions applied to postings, by kind, action and outcome code.",
	}, []string{"kind", "action", "outcome"})

	applicationEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_events_total",
		Help:      "Application workflow events, by event and outcome code.",
	}, []string{"event", "outcome"})

	bulkBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "moderation_bulk_batch_size",
		Help:      "Number of posting ids per bulk moderation request.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
	}, []string{"action"})
)

// Outcome turns err into a low cardinality label value.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(workflow.CodeOf(err))
}

// ObserveModeration counts one moderation action.
func ObserveModeration(kind workflow.PostingKind, action workflow.ModerationAction, err error) {
	if kind == "" {
		kind = "UNKNOWN"
	}
	moderationTransitions.WithLabelValues(string(kind), string(action), Outcome(err)).Inc()
}

// ObserveApplication counts one application event ("apply" or "decide").
func ObserveApplication(event string, err error) {
	applicationEvents.WithLabelValues(event, Outcome(err)).Inc()
}

// ObserveBulk records the size of a bulk moderation batch.
func ObserveBulk(action workflow.ModerationAction, size int) {
	bulkBatchSize.WithLabelValues(string(action)).Observe(float64(size))
}
