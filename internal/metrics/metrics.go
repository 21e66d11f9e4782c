// Package metrics - коллекторы Prometheus, отдаются на /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "duel_sessions_active",
		Help: "Number of running duel sessions.",
	})

	Actions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "duel_actions_total",
		Help: "Inbound duel actions by type and outcome.",
	}, []string{"action", "outcome"})

	GamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "duel_games_finished_total",
		Help: "Finished duels by game over reason.",
	}, []string{"reason"})

	PoolFetch = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "duel_pool_fetch_seconds",
		Help:    "Latency of question pool fetches.",
		Buckets: prometheus.DefBuckets,
	})

	PoolCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "duel_pool_cache_total",
		Help: "Question pool cache lookups by result.",
	}, []string{"result"})

	DroppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "duel_ws_dropped_messages_total",
		Help: "Outbound messages dropped because a client send buffer was full.",
	})
)
