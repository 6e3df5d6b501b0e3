package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order submissions",
	}, []string{"reason"})

	OrderIntakeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_intake_latency_seconds",
		Help:    "Latency of the order intake pipeline",
		Buckets: prometheus.DefBuckets,
	})

	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_updates_total",
		Help: "Total number of order status transitions",
	}, []string{"status"})

	MerchantRegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merchant_registrations_total",
		Help: "Total number of merchant registrations",
	})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Total number of login attempts",
	}, []string{"result"})

	NotificationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Total number of notifications created",
	})

	NotificationsReadTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_read_total",
		Help: "Total number of notifications marked read",
	})

	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products created",
	})

	OrderLinkRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_link_retries_total",
		Help: "Total number of order-link regeneration retries",
	})

	OrderLinkCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_link_cache_hits_total",
		Help: "Order-link lookup cache outcomes",
	}, []string{"outcome"})

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
