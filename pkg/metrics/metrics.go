package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ContentReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "content_reads_total", Help: "Number of collection list operations by collection and outcome."},
		[]string{"collection", "outcome"},
	)
	ContentWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "content_writes_total", Help: "Number of create/update operations by collection and outcome."},
		[]string{"collection", "outcome"},
	)
	ContentDeletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "content_deletes_total", Help: "Number of delete operations by collection and outcome."},
		[]string{"collection", "outcome"},
	)
	ImageUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "image_uploads_total", Help: "Number of blob uploads by outcome."},
		[]string{"outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(ContentReads)
	reg.MustRegister(ContentWrites)
	reg.MustRegister(ContentDeletes)
	reg.MustRegister(ImageUploads)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
