// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "knowledge"

var (
	// HTTPRequestsTotal counts handled requests.
	// Labels: method, route (chi pattern), status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// OTPEvents counts signup verification lifecycle events.
	// Labels: event (issued, resent, verified, expired, locked, invalid, duplicate, throttled)
	OTPEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "otp",
			Name:      "events_total",
			Help:      "Total number of OTP lifecycle events",
		},
		[]string{"event"},
	)

	// AssistantRequests counts gateway calls.
	// Labels: outcome (ok, demo, error)
	AssistantRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "requests_total",
			Help:      "Total number of assistant generation requests",
		},
		[]string{"outcome"},
	)

	// MailJobs counts dispatcher outcomes.
	// Labels: result (sent, failed, dropped)
	MailJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "jobs_total",
			Help:      "Total number of email jobs by result",
		},
		[]string{"result"},
	)
)

func OTPEvent(event string) {
	OTPEvents.WithLabelValues(event).Inc()
}

func AssistantOutcome(outcome string) {
	AssistantRequests.WithLabelValues(outcome).Inc()
}

func MailJob(result string) {
	MailJobs.WithLabelValues(result).Inc()
}
