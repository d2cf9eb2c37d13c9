package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RoundsSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_rounds_settled_total",
			Help: "Total settled rounds",
		},
		[]string{"size", "parity", "forced"},
	)

	WagersSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_wagers_settled_total",
			Help: "Total settled wagers by result",
		},
		[]string{"result"},
	)

	PayoutFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lottery_payout_failures_total",
			Help: "Winning wagers left unpaid after all retries",
		},
	)

	ClearFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lottery_clear_failures_total",
			Help: "Rounds whose pending wagers could not be cleared",
		},
	)

	SettlementDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lottery_settlement_duration_seconds",
			Help:    "Time spent settling one round of one room",
			Buckets: prometheus.DefBuckets,
		},
	)

	SchedulerErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lottery_scheduler_errors_total",
			Help: "Failed scheduler iterations",
		},
	)

	WagersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_wagers_placed_total",
			Help: "Accepted wagers by kind",
		},
		[]string{"kind"},
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_events_published_total",
			Help: "Round lifecycle events delivered to the bus",
		},
		[]string{"event"},
	)

	PotAmount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lottery_pot_amount",
			Help: "Current pot accumulator",
		},
	)
)

func Init() {
	prometheus.MustRegister(RoundsSettled)
	prometheus.MustRegister(WagersSettled)
	prometheus.MustRegister(PayoutFailures)
	prometheus.MustRegister(ClearFailures)
	prometheus.MustRegister(SettlementDuration)
	prometheus.MustRegister(SchedulerErrors)
	prometheus.MustRegister(WagersPlaced)
	prometheus.MustRegister(EventsPublished)
	prometheus.MustRegister(PotAmount)
}
