package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomerOperationsTotal *prometheus.CounterVec
	CustomersStored         prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "customer_service_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomerOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_service_customer_operations_total",
				Help: "Total number of customer operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		CustomersStored: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "customer_service_customers_stored",
				Help: "Number of customers in storage at the last stats refresh.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordCustomerOperation(operation, outcome string) {
	Business.CustomerOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

func SetCustomersStored(count int) {
	Business.CustomersStored.Set(float64(count))
}
