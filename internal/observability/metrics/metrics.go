package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "siteledger_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	reportGenerateTotal   *prometheus.CounterVec
	reportGenerateLatency *prometheus.HistogramVec

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec

	dataQualityWarnings *prometheus.CounterVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		reportGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_generate_total",
				Help: "Total report generate operations by kind and result",
			},
			[]string{"kind", "result"},
		)
		reportGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_generate_latency_seconds",
				Help:    "Report generate latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "result"},
		)
		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report export operations by kind, format and result",
			},
			[]string{"kind", "format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "format", "result"},
		)
		dataQualityWarnings = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "data_quality_warnings_total",
				Help: "Total data-quality warnings recovered during normalization",
			},
			[]string{"reason"},
		)

		prometheus.MustRegister(
			reportGenerateTotal,
			reportGenerateLatency,
			reportExportTotal,
			reportExportLatency,
			dataQualityWarnings,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveReportGenerate records generate latency and result.
func ObserveReportGenerate(kind, result string, duration time.Duration) {
	if kind == "" {
		kind = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportGenerateTotal != nil {
		reportGenerateTotal.WithLabelValues(kind, result).Inc()
	}
	if reportGenerateLatency != nil {
		reportGenerateLatency.WithLabelValues(kind, result).Observe(duration.Seconds())
	}
}

// ObserveReportExport records export latency and result.
func ObserveReportExport(kind, format, result string, duration time.Duration) {
	if kind == "" {
		kind = "unknown"
	}
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(kind, format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(kind, format, result).Observe(duration.Seconds())
	}
}

// AddDataQualityWarnings increments the warning counter by count.
func AddDataQualityWarnings(reason string, count int) {
	if count <= 0 {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	if dataQualityWarnings != nil {
		dataQualityWarnings.WithLabelValues(reason).Add(float64(count))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
