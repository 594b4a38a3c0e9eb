package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products created",
	})

	SalesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_created_total",
		Help: "Total number of sales recorded",
	})

	SalesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_failed_total",
		Help: "Total number of failed sale requests",
	}, []string{"reason"})

	StockAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Total number of per-product stock adjustments",
	}, []string{"outcome"})

	PartialStockWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partial_stock_writes_total",
		Help: "Total number of sales that updated fewer products than requested",
	})

	LowStockAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_stock_alerts_total",
		Help: "Total number of low-stock alerts raised",
	})

	AuthorizationDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authorization_denied_total",
		Help: "Total number of denied permission checks",
	}, []string{"reason"})

	ConsolidationRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "type_consolidation_runs_total",
		Help: "Total number of type consolidation runs",
	})

	ConsolidationRewritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "type_consolidation_rewrites_total",
		Help: "Total number of products rewritten by consolidation",
	})

	ConsolidationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "type_consolidation_latency_seconds",
		Help:    "Latency of full consolidation runs",
		Buckets: prometheus.DefBuckets,
	})

	TypeSuggestionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "type_suggestion_latency_seconds",
		Help:    "Latency of fuzzy type suggestion queries",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
