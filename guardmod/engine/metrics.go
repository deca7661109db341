package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "warden_event_duration_sec",
	Help: "Total duration of decision engine event processing",
}, []string{"type"})

var eventProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_event_processed",
	Help: "Number of events processed",
}, []string{"type"})

var eventErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_event_errors",
	Help: "Number of events which failed processing",
}, []string{"type"})

var violationCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_violations",
	Help: "Number of violations classified, by kind",
}, []string{"kind"})

var actionCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_moderation_actions",
	Help: "Number of moderation actions emitted, by kind",
}, []string{"kind"})

var levelUpCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_level_ups",
	Help: "Number of level transitions awarded",
})

var raidDetectedCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_raid_signals",
	Help: "Number of raid-level join rate signals emitted",
})
