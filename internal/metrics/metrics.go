package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fuel_prices_cycles_total",
		Help: "Completed refresh cycles by location and outcome",
	}, []string{"location", "outcome"})

	CheapestPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fuel_prices_cheapest_price_euro",
		Help: "Cheapest price per litre found in the latest cycle",
	}, []string{"location", "fuel_type"})

	StationsResolved = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fuel_prices_stations_resolved",
		Help: "Stations with a price for the requested fuel type in the latest cycle",
	}, []string{"location"})

	DetailFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fuel_prices_detail_failures_total",
		Help: "Station detail lookups that contributed nothing, by reason",
	}, []string{"reason"})

	ChangeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fuel_prices_change_events_total",
		Help: "Price change events emitted, by location and kind",
	}, []string{"location", "kind"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fuel_prices_upstream_request_duration_seconds",
		Help:    "Latency of requests to the tank service",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})
)
