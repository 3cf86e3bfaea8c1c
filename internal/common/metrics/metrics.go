// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_classifications_total",
			Help: "Total number of classifications, by the stage that produced the result",
		},
		[]string{"stage"},
	)

	ClassificationFallthroughs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_classification_fallthroughs_total",
			Help: "Total number of stage failures that fell through to the next stage",
		},
		[]string{"stage", "error_code"},
	)

	ClassificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ticket_classification_duration_seconds",
			Help: "Duration of the full classification cascade in seconds",
		},
		[]string{"stage"},
	)

	TicketUpdatesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_updates_failed_total",
			Help: "Total number of failed ticket repository updates",
		},
		[]string{"error_code"},
	)
)
