// Package observability exposes Prometheus counters for calculator usage.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	trainingsComputed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calclog",
		Subsystem: "fitness",
		Name:      "summaries_computed_total",
		Help:      "Training summaries computed, by workout code.",
	}, []string{"workout_code"})
	financialResultsComputed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calclog",
		Subsystem: "finance",
		Name:      "results_computed_total",
		Help:      "Financial results computed, split by quoted and local assets.",
	}, []string{"quoted"})
	calculationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calclog",
		Name:      "calculation_failures_total",
		Help:      "Rejected calculations, by error code.",
	}, []string{"error_code"})
)

func init() {
	prometheus.MustRegister(trainingsComputed, financialResultsComputed, calculationFailures)
}

// RecordTraining counts a computed training summary.
func RecordTraining(code string) {
	trainingsComputed.WithLabelValues(code).Inc()
}

// RecordFinancialResult counts a computed financial result.
func RecordFinancialResult(quoted bool) {
	financialResultsComputed.WithLabelValues(strconv.FormatBool(quoted)).Inc()
}

// RecordFailure counts a rejected calculation. Empty codes are reported as "unknown".
func RecordFailure(code string) {
	if code == "" {
		code = "unknown"
	}
	calculationFailures.WithLabelValues(code).Inc()
}
