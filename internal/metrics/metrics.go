package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	ReturnsRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_returns_requested_total",
		Help: "Total number of return requests accepted for delivered orders.",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_transitions_total",
		Help: "Total number of order status transitions applied.",
	},
		[]string{"from", "to"},
	)

	ReviewsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_reviews_submitted_total",
		Help: "Total number of reviews submitted for moderation.",
	})

	ReviewModerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_review_moderations_total",
		Help: "Total number of review moderation decisions by resulting status.",
	},
		[]string{"status"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_http_requests_total",
		Help: "Total number of HTTP requests by route and status code.",
	},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method", "route"},
	)
)
