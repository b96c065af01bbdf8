package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RoundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigged_rps_rounds_total",
			Help: "Rounds committed by this process, by player outcome",
		},
		[]string{"outcome"},
	)
	VisitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rigged_rps_visits_total",
			Help: "Visits recorded by this process",
		},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigged_rps_stats_store_errors_total",
			Help: "Failed calls to the stats store",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(RoundsTotal)
	prometheus.MustRegister(VisitsTotal)
	prometheus.MustRegister(StoreErrors)
}
