package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Jobs records scheduled job runs. A nil *Jobs drops every observation.
type Jobs struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

// NewJobs registers the scheduler metrics on the provided registerer.
func NewJobs(reg prometheus.Registerer) *Jobs {
	if reg == nil {
		return &Jobs{}
	}
	j := &Jobs{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "simkemas_job_duration_seconds",
			Help:    "Duration of scheduled jobs in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simkemas_job_runs_total",
			Help: "Scheduled job executions, by outcome.",
		}, []string{"job", "outcome"}),
	}
	reg.MustRegister(j.duration, j.runs)
	return j
}

// ObserveRun records one execution of job that began at started.
func (j *Jobs) ObserveRun(job string, started time.Time, err error) {
	if j == nil || j.duration == nil {
		return
	}
	job = normalizeLabel(job)
	j.duration.WithLabelValues(job).Observe(time.Since(started).Seconds())
	j.runs.WithLabelValues(job, outcome(err)).Inc()
}
