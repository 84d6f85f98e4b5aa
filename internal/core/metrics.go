// AngelaMos | 2026
// metrics.go

package core

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by surface and result.",
		},
		[]string{"surface", "result"},
	)

	AuthorizationDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denials_total",
			Help: "Requests rejected by the authorization policy.",
		},
		[]string{"reason"},
	)

	PushFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "push_notification_failures_total",
			Help: "Push notification deliveries that failed.",
		},
	)

	JobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_runs_total",
			Help: "Background job executions by job and result.",
		},
		[]string{"job", "result"},
	)
)

// RegisterMetrics registers the collectors on reg. Call once at startup.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		LoginsTotal,
		AuthorizationDenialsTotal,
		PushFailuresTotal,
		JobRunsTotal,
	)
}
