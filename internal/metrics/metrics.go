package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Game Metrics
var (
	CommandsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commands_handled_total",
			Help: "Total number of player commands handled",
		},
		[]string{"state", "outcome"},
	)

	HeroesRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "heroes_registered_total",
			Help: "Total number of heroes registered",
		},
	)

	FightRounds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fight_rounds_total",
			Help: "Total number of combat rounds resolved",
		},
		[]string{"action", "outcome"},
	)

	MobsKilled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mobs_killed_total",
			Help: "Total number of mobs killed",
		},
		[]string{"mob"},
	)

	HeroDeaths = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hero_deaths_total",
			Help: "Total number of hero deaths",
		},
	)

	ActivitiesFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_fired_total",
			Help: "Total number of scheduled activities fired",
		},
		[]string{"kind"},
	)
)

// Economy Metrics
var (
	ItemsBought = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_bought_total",
			Help: "Total number of items bought",
		},
		[]string{"item"},
	)

	ItemsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_sold_total",
			Help: "Total number of items sold",
		},
		[]string{"item"},
	)

	GoldSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gold_spent_total",
			Help: "Total gold spent buying items",
		},
	)

	GoldEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gold_earned_total",
			Help: "Total gold earned from selling items",
		},
	)
)
