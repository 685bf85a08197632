package session

import "github.com/zeromicro/go-zero/core/metric"

var (
	deletions = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fonts",
		Subsystem: "catalog",
		Name:      "deletions_total",
		Help:      "Confirmed catalog deletions",
		Labels:    []string{"kind"},
	})

	deleteRequests = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "plat_fonts",
		Subsystem: "catalog",
		Name:      "requests_total",
		Help:      "Delete workflow transitions by outcome",
		Labels:    []string{"outcome"},
	})

	activeSessions = metric.NewGaugeVec(&metric.GaugeVecOpts{
		Namespace: "plat_fonts",
		Subsystem: "session",
		Name:      "active",
		Help:      "Live editing sessions",
	})
)
