package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "engagement_evaluations_total",
	Help: "Number of evaluator runs that produced a result",
}, []string{"kind"})

var evaluatorSkips = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "engagement_evaluator_skips_total",
	Help: "Number of times an evaluator declined a submission",
}, []string{"kind"})

var evaluatorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "engagement_evaluator_failures_total",
	Help: "Number of evaluator runs excluded after an internal failure",
}, []string{"kind"})

var decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "engagement_decisions_total",
	Help: "Number of fused decisions by verdict",
}, []string{"verdict"})

var orchestrationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "engagement_orchestration_duration_seconds",
	Help:    "Wall time of one orchestration call",
	Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
})
