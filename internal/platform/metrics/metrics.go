// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "libris_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "libris_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// SearchQueriesTotal counts catalog searches by matcher and cache outcome.
	SearchQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "libris_search_queries_total",
		Help: "Catalog search operations",
	}, []string{"matcher", "cache"})

	// CirculationOutcomesTotal counts borrow/return outcomes by code.
	CirculationOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "libris_circulation_outcomes_total",
		Help: "Circulation outcomes by operation and code",
	}, []string{"operation", "code"})

	// CirculationRetriesTotal counts compare-and-set conflicts that forced a retry.
	CirculationRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "libris_circulation_retries_total",
		Help: "Circulation transactions retried after a concurrent update",
	}, []string{"operation"})
)
