package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harmony_admin", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harmony_admin", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	RecordMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harmony_admin", Name: "record_mutations_total", Help: "Record store mutations by resource and operation."},
		[]string{"resource", "op"},
	)
	StoreReadFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harmony_admin", Name: "store_read_failures_total", Help: "Resource reads that fell back to an empty list."},
		[]string{"resource"},
	)
	ExportJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harmony_admin", Name: "export_jobs_total", Help: "Export jobs by format and delivery target."},
		[]string{"format", "target"},
	)
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harmony_admin", Name: "import_rows_total", Help: "Imported rows by outcome."},
		[]string{"outcome"},
	)
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "harmony_admin", Name: "notifications_total", Help: "Notifications published by type."},
		[]string{"type"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(RecordMutations)
	reg.MustRegister(StoreReadFailures)
	reg.MustRegister(ExportJobs)
	reg.MustRegister(ImportRows)
	reg.MustRegister(Notifications)
}
