package records

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "logbook",
			Name:      "repository_ops_total",
			Help:      "Repository operations by name and outcome.",
		},
		[]string{"op", "outcome"},
	)

	importedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "logbook",
			Name:      "records_imported_total",
			Help:      "Records added through batch imports.",
		},
	)

	skippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "logbook",
			Name:      "records_skipped_total",
			Help:      "Stored entries skipped on load because they were unreadable or malformed.",
		},
	)
)

func countOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	opsTotal.WithLabelValues(op, outcome).Inc()
}
