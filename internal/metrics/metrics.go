package metrics

import (
	"context"

	"github.com/aretw0/mlpipe/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mlpipe"

// Recorder keeps the metrics of one pipeline run in a private registry.
type Recorder struct {
	registry *prometheus.Registry

	BuildInfo     *prometheus.GaugeVec
	StageDuration *prometheus.HistogramVec
	StageRuns     *prometheus.CounterVec
	Transitions   *prometheus.CounterVec
	RunSuccess    prometheus.Gauge
}

// New creates a recorder with all metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		BuildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information of the orchestrator",
		}, []string{"version", "commit"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each external stage processor",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s .. ~17m
		}, []string{"stage"}),
		StageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_runs_total",
			Help:      "Stage runs by outcome",
		}, []string{"stage", "result"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Controller transitions by target state",
		}, []string{"to"}),
		RunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "1 if the last run reached done, 0 otherwise",
		}),
	}
	r.registry.MustRegister(r.BuildInfo, r.StageDuration, r.StageRuns, r.Transitions, r.RunSuccess)
	return r
}

// Hooks returns lifecycle hooks feeding the recorder.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			r.Transitions.WithLabelValues(string(e.To)).Inc()
			switch e.To {
			case domain.StateDone:
				r.RunSuccess.Set(1)
			case domain.StateFailed:
				r.RunSuccess.Set(0)
			}
		},
		OnStageFinish: func(_ context.Context, e *domain.StageEvent) {
			result := "success"
			if e.Err != nil {
				result = "failure"
			}
			r.StageRuns.WithLabelValues(string(e.Stage), result).Inc()
			r.StageDuration.WithLabelValues(string(e.Stage)).Observe(e.Duration.Seconds())
		},
	}
}

// WriteTextfile dumps the registry in text exposition format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
