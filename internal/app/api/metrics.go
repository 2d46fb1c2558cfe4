package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buzz_api_calls_total",
		Help: "Calls to the remote events service by method and outcome.",
	}, []string{"method", "outcome"})

	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "buzz_api_call_duration_seconds",
		Help:    "Latency of calls to the remote events service that reached the network.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return KindOf(err).String()
}
