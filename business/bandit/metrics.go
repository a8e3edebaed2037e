package bandit

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BanditSelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_selections_total",
			Help: "Count of selection rounds by outcome (selected, no_valid_action).",
		},
		[]string{"result"},
	)

	BanditRewardUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_reward_updates_total",
			Help: "Count of reward updates by result (success, failure, ignored).",
		},
		[]string{"result"},
	)

	BanditPersistFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_persist_failures_total",
			Help: "Count of persistence gateway failures by operation.",
		},
		[]string{"op"},
	)

	BanditPosteriors = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bandit_posteriors",
		Help: "Number of posteriors currently held in memory.",
	})

	BanditEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bandit_evictions_total",
		Help: "Posteriors dropped by the capacity limit.",
	})
)

func init() {
	prometheus.MustRegister(
		BanditSelectionsTotal,
		BanditRewardUpdatesTotal,
		BanditPersistFailuresTotal,
		BanditPosteriors,
		BanditEvictionsTotal,
	)
}
