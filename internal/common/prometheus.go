package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal             = "http_requests_total"
	HTTPRequestDurationSeconds   = "http_request_duration_seconds"
	BlockchainTransactionFailure = "blockchain_transaction_failure"
	BlockchainTransactionTotal   = "blockchain_transaction_total"
	BridgeRequestTotal           = "bridge_request_total"
	BridgeDurationSeconds        = "bridge_duration_seconds"
	ImageGenerationTotal         = "image_generation_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		BlockchainTransactionFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BlockchainTransactionFailure,
			Help: "Count of all blockchain transaction failure",
		}, []string{"method"}),
		BlockchainTransactionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BlockchainTransactionTotal,
			Help: "Count of all dispatched blockchain transactions",
		}, []string{"chain", "kind"}),
		BridgeRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BridgeRequestTotal,
			Help: "Count of bridge requests by final status",
		}, []string{"source_chain", "target_chain", "status"}),
		ImageGenerationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ImageGenerationTotal,
			Help: "Count of generated images",
		}, []string{"source", "status"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
		BridgeDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    BridgeDurationSeconds,
			Help:    "Duration from the first to the last status of a bridge request",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		}, []string{"status"}),
	}
)

// PromCollectors returns every metric of the service for registration.
func PromCollectors() []prometheus.Collector {
	result := make([]prometheus.Collector, 0, len(PromCounters)+len(PromHistograms))
	for _, counter := range PromCounters {
		result = append(result, counter)
	}

	for _, histogram := range PromHistograms {
		result = append(result, histogram)
	}

	return result
}
