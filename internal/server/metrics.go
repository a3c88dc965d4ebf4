package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compass_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "compass_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"endpoint"},
	)

	reportsDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "compass_reports_degraded_total",
			Help: "Total number of analysis reports returned with missing sections",
		},
	)

	casebookSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "compass_casebook_size",
			Help: "Number of historical cases in the loaded snapshot",
		},
	)
)
