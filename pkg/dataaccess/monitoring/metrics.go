package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// KVLatency is the duration of KV store requests.
	KVLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_kv_latency",
			Help: "Duration of KV store requests",
		},
		[]string{"dal", "op"},
	)

	// KVTotalRequests is the total number of KV store requests.
	KVTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_kv_total_requests",
			Help: "Total number of KV store requests",
		},
		[]string{"dal", "op"},
	)
)
