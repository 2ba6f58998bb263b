// Package metrics exposes Prometheus instruments for the quote service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cpmmquote",
		Name:      "quotes_total",
		Help:      "CPMM previews served, by action and outcome.",
	}, []string{"action", "outcome"})

	QuotePriceImpact = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cpmmquote",
		Name:      "quote_price_impact",
		Help:      "Absolute price impact of served CPMM previews.",
		Buckets:   []float64{0.0001, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	}, []string{"action"})

	EstimatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cpmmquote",
		Name:      "market_order_estimates_total",
		Help:      "Market-order simulations, by side and feasibility.",
	}, []string{"side", "feasible"})

	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cpmmquote",
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by cache name and result (hit, miss, error).",
	}, []string{"cache", "result"})
)

// Registry holds every instrument above plus the Go runtime collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		QuotesTotal,
		QuotePriceImpact,
		EstimatesTotal,
		CacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveQuote records one served preview.
func ObserveQuote(action, outcome string, priceImpact float64) {
	QuotesTotal.WithLabelValues(action, outcome).Inc()
	if priceImpact < 0 {
		priceImpact = -priceImpact
	}
	QuotePriceImpact.WithLabelValues(action).Observe(priceImpact)
}

// ObserveEstimate records one market-order simulation.
func ObserveEstimate(side string, feasible bool) {
	EstimatesTotal.WithLabelValues(side, strconv.FormatBool(feasible)).Inc()
}

// ObserveCache records a cache lookup result: "hit", "miss" or "error".
func ObserveCache(cache, result string) {
	CacheLookups.WithLabelValues(cache, result).Inc()
}
