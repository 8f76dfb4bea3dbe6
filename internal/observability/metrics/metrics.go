package metrics

import (
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

func outcome(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

var defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

// Collectors are created eagerly so recording never needs Init, Init only
// registers them and exposes the /metrics endpoint.
var (
	once sync.Once

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of incoming http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"route", "method", "status"},
	)

	lockOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lock_operation_count",
			Help: "Number of lock operations split by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	exitQueueDepthGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "exit_queue_depth",
			Help: "Number of locks waiting in the exit queue",
		},
	)

	claimableExitsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "claimable_exits_count",
			Help: "Number of exit queue entries announced as claimable in the last check",
		},
	)

	dueExitsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "due_exits_count",
			Help: "Number of queued locks whose cooldown has elapsed but have not exited",
		},
	)

	totalLockedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "total_locked_amount",
			Help: "Amount locked in every lock that has not exited",
		},
	)

	totalVotingPowerGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "total_voting_power",
			Help: "Voting power of every active lock",
		},
	)

	lockCountGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lock_count",
			Help: "Number of locks split by status",
		},
		[]string{"status"},
	)
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter := chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics registers the Prometheus metrics.
func registerMetrics() {
	prometheus.MustRegister(
		pollerDurationHistogram,
		pollerLastSuccessGauge,
		dbLatency,
		httpRequestDurationHistogram,
		lockOperationCounter,
		queueSendErrorCounter,
		exitQueueDepthGauge,
		claimableExitsGauge,
		dueExitsGauge,
		totalLockedGauge,
		totalVotingPowerGauge,
		lockCountGauge,
	)
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordHttpRequestDuration(d time.Duration, route, method string, statusCode int) {
	httpRequestDurationHistogram.
		WithLabelValues(route, method, fmt.Sprintf("%d", statusCode)).
		Observe(d.Seconds())
}

func RecordLockOperation(operation string, failure bool) {
	lockOperationCounter.WithLabelValues(operation, outcome(failure).String()).Inc()
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}

func RecordExitQueueDepth(depth int) {
	exitQueueDepthGauge.Set(float64(depth))
}

func RecordClaimableExitsCount(count int) {
	claimableExitsGauge.Set(float64(count))
}

func RecordDueExitsCount(count int) {
	dueExitsGauge.Set(float64(count))
}

func RecordTotalLocked(amount math.Int) {
	f, _ := new(big.Float).SetInt(amount.BigInt()).Float64()
	totalLockedGauge.Set(f)
}

func RecordTotalVotingPower(power math.LegacyDec) {
	f, err := power.Float64()
	if err != nil {
		log.Warn().Err(err).Msg("voting power does not fit a float64")
		return
	}
	totalVotingPowerGauge.Set(f)
}

func RecordLockCount(status string, count int) {
	lockCountGauge.WithLabelValues(status).Set(float64(count))
}
