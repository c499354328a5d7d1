package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "attendance_rows",
			Help: "Attendance rows available to reports",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM attendance")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "material_purchase_rows",
			Help: "Material purchase rows available to reports",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM material_purchases")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "fund_transfer_rows",
			Help: "Fund transfer rows available to reports",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM fund_transfers")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
