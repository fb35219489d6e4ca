package dispatch

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heyso_client",
			Subsystem: "dispatch",
			Name:      "submissions_total",
			Help:      "Jobs accepted into the dispatcher.",
		},
		[]string{"shard"},
	)

	queueFullTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heyso_client",
			Subsystem: "dispatch",
			Name:      "queue_full_total",
			Help:      "Submissions rejected because a shard queue was full.",
		},
		[]string{"shard"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "heyso_client",
			Subsystem: "dispatch",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a single job attempt.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"shard"},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "heyso_client",
			Subsystem: "dispatch",
			Name:      "queue_depth",
			Help:      "Jobs waiting per shard.",
		},
		[]string{"shard"},
	)
)

func labelFor(shard int) string { return strconv.Itoa(shard) }
