package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heyso_client",
			Subsystem: "cache",
			Name:      "fetches_total",
			Help:      "Fetches issued, by entity.",
		},
		[]string{"entity"},
	)

	fetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heyso_client",
			Subsystem: "cache",
			Name:      "fetch_failures_total",
			Help:      "Fetches that returned an error, by entity.",
		},
		[]string{"entity"},
	)

	commitsDiscardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heyso_client",
			Subsystem: "cache",
			Name:      "commits_discarded_total",
			Help:      "Fetch results discarded because a newer fetch superseded them.",
		},
		[]string{"entity"},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heyso_client",
			Subsystem: "cache",
			Name:      "mutations_total",
			Help:      "Mutations executed, by primary entity.",
		},
		[]string{"entity"},
	)

	mutationRollbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heyso_client",
			Subsystem: "cache",
			Name:      "mutation_rollbacks_total",
			Help:      "Mutations rolled back to their pre-mutation snapshot.",
		},
		[]string{"entity"},
	)
)
