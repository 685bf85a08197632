package delivery

import "github.com/zeromicro/go-zero/core/metric"

var (
	submissionsDelivered = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fonts",
		Subsystem: "delivery",
		Name:      "submissions_delivered_total",
		Help:      "Total catalog submissions delivered",
		Labels:    []string{"theme"},
	})

	submissionsFailed = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fonts",
		Subsystem: "delivery",
		Name:      "submissions_failed_total",
		Help:      "Total catalog submissions failed permanently",
		Labels:    []string{"theme", "reason"},
	})

	submissionsRetried = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fonts",
		Subsystem: "delivery",
		Name:      "submissions_retried_total",
		Help:      "Total catalog submission retries",
		Labels:    []string{"theme"},
	})

	deliveryDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "plat_fonts",
		Subsystem: "delivery",
		Name:      "duration_seconds",
		Help:      "Catalog submission delivery duration in seconds",
		Labels:    []string{"theme"},
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	queueDepth = metric.NewGaugeVec(&metric.GaugeVecOpts{
		Namespace: "plat_fonts",
		Subsystem: "queue",
		Name:      "depth",
		Help:      "Current submission queue depth by status",
		Labels:    []string{"status"},
	})
)
