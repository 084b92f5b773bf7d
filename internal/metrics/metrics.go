// Package metrics records per-run Prometheus collectors and flushes them to a
// node_exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Step outcomes used as the outcome label.
const (
	OutcomeUpdated  = "updated"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
	OutcomeDisabled = "disabled"
)

// Recorder owns the collectors for a single run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	stepRuns      *prometheus.CounterVec
	fieldsUpdated *prometheus.CounterVec
	lastRun       prometheus.Gauge
	dryRun        prometheus.Gauge
}

// NewRecorder registers the run collectors against a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitestamp_step_runs_total",
			Help: "Step executions partitioned by step and outcome.",
		}, []string{"step", "outcome"}),
		fieldsUpdated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitestamp_fields_updated_total",
			Help: "Timestamp fields rewritten, partitioned by step and field.",
		}, []string{"step", "field"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sitestamp_last_run_timestamp_seconds",
			Help: "Unix time the last run stamped its artifacts with.",
		}),
		dryRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sitestamp_dry_run",
			Help: "1 when the last run did not write any file.",
		}),
	}
	r.registry.MustRegister(r.stepRuns, r.fieldsUpdated, r.lastRun, r.dryRun)
	return r
}

// ObserveStep counts one execution of step with the given outcome.
func (r *Recorder) ObserveStep(step, outcome string) {
	r.stepRuns.WithLabelValues(step, outcome).Inc()
}

// AddFields counts n rewritten fields.
func (r *Recorder) AddFields(step, field string, n int) {
	if n <= 0 {
		return
	}
	r.fieldsUpdated.WithLabelValues(step, field).Add(float64(n))
}

// SetRun records the stamp instant and whether the run was a dry run.
func (r *Recorder) SetRun(at time.Time, dryRun bool) {
	r.lastRun.Set(float64(at.Unix()))
	if dryRun {
		r.dryRun.Set(1)
	} else {
		r.dryRun.Set(0)
	}
}

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every collector to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
