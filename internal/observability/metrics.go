package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce               sync.Once
	httpDurationHistogram      *prometheus.HistogramVec
	walletOperationCounter     *prometheus.CounterVec
	conservationViolationCount prometheus.Counter
	idempotencyCounter         *prometheus.CounterVec
	workerRunCounter           *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		walletOperationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_operations_total",
			Help: "Wallet facade operation outcomes",
		}, []string{"operation", "outcome"})

		conservationViolationCount = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_conservation_violations_total",
			Help: "Number of times wallet totals diverged from the ledger net flow",
		})

		idempotencyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_events_total",
			Help: "Idempotency middleware outcomes",
		}, []string{"outcome"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			walletOperationCounter,
			conservationViolationCount,
			idempotencyCounter,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementWalletOperation(operation, outcome string) {
	if walletOperationCounter == nil {
		return
	}
	walletOperationCounter.WithLabelValues(operation, outcome).Inc()
}

func IncrementConservationViolation() {
	if conservationViolationCount == nil {
		return
	}
	conservationViolationCount.Inc()
}

func IncrementIdempotencyEvent(outcome string) {
	if idempotencyCounter == nil {
		return
	}
	idempotencyCounter.WithLabelValues(outcome).Inc()
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
