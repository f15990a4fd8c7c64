package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	queryRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leakradar",
			Subsystem: "watch",
			Name:      "query_runs_total",
			Help:      "Total watch query executions.",
		},
		[]string{"query", "result"},
	)
	queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leakradar",
			Subsystem: "watch",
			Name:      "query_duration_seconds",
			Help:      "Watch query execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"query", "result"},
	)
	findings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leakradar",
			Subsystem: "watch",
			Name:      "findings_total",
			Help:      "Findings returned by watch queries.",
		},
		[]string{"query", "state"},
	)
	alertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leakradar",
			Subsystem: "watch",
			Name:      "alerts_sent_total",
			Help:      "Alerts fanned out to sinks.",
		},
		[]string{"query"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(queryRuns, queryDuration, findings, alertsSent)
	})
}

func RecordQueryRun(query string, duration time.Duration, success bool) {
	RegisterMetrics()
	result := "success"
	if !success {
		result = "error"
	}
	queryRuns.WithLabelValues(query, result).Inc()
	queryDuration.WithLabelValues(query, result).Observe(duration.Seconds())
}

func RecordFindings(query string, total, fresh int) {
	RegisterMetrics()
	findings.WithLabelValues(query, "total").Add(float64(total))
	findings.WithLabelValues(query, "new").Add(float64(fresh))
}

func RecordAlerts(query string, sent int) {
	RegisterMetrics()
	alertsSent.WithLabelValues(query).Add(float64(sent))
}

// Serve exposes the Prometheus endpoint on addr. It blocks until the
// listener fails or the process exits.
func Serve(addr string) error {
	RegisterMetrics()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
