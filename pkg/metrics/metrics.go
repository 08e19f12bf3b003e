package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "document_service"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "documents_created_total", Help: "Number of Google documents created and placed in their destination folder."},
	)
	DocumentFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "document_failures_total", Help: "Number of failed document creations by error code."},
		[]string{"code"},
	)
	DriveCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "drive_call_duration_seconds", Help: "Latency of Google Drive API calls.", Buckets: prometheus.DefBuckets},
		[]string{"op", "outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentsCreated)
	reg.MustRegister(DocumentFailures)
	reg.MustRegister(DriveCallDuration)
}
