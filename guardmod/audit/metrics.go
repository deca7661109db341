package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var auditDroppedCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_audit_entries_dropped",
	Help: "Number of audit entries dropped due to a full write queue",
})

var auditWriteErrorCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_audit_write_errors",
	Help: "Number of audit entries which failed to persist",
})
