// Package metrics records run statistics for the Prometheus textfile
// collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stillriver/overrun/pkg/monitor"
)

const namespace = "overrun"

// Recorder holds the gauges describing the most recent run. It uses
// its own registry so the textfile contains exactly these metrics.
type Recorder struct {
	reg *prometheus.Registry

	linesRead     prometheus.Gauge
	linesSkipped  prometheus.Gauge
	jobsCompleted prometheus.Gauge
	jobsUnmatched prometheus.Gauge
	jobsWarning   prometheus.Gauge
	jobsError     prometheus.Gauge
	jobsAnomalous prometheus.Gauge
	reportLines   prometheus.Gauge
	runDuration   prometheus.Gauge
	lastRunTS     prometheus.Gauge
}

// NewRecorder creates a recorder with all gauges registered.
func NewRecorder() *Recorder {
	r := &Recorder{reg: prometheus.NewRegistry()}

	gauge := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
		r.reg.MustRegister(g)
		return g
	}

	r.linesRead = gauge("lines_read", "Lines read from the log source in the last run")
	r.linesSkipped = gauge("lines_skipped", "Lines that did not parse in the last run")
	r.jobsCompleted = gauge("jobs_completed", "Jobs with both start and end events in the last run")
	r.jobsUnmatched = gauge("jobs_unmatched", "Jobs missing a start or end event in the last run")
	r.jobsWarning = gauge("jobs_warning", "Jobs over the warning threshold in the last run")
	r.jobsError = gauge("jobs_error", "Jobs over the error threshold in the last run")
	r.jobsAnomalous = gauge("jobs_anomalous", "Jobs whose end preceded their start in the last run")
	r.reportLines = gauge("report_lines", "Lines written to the report file in the last run")
	r.runDuration = gauge("run_duration_seconds", "Time the last run took")
	r.lastRunTS = gauge("last_run_timestamp_seconds", "Unix timestamp of the last completed run")

	return r
}

// Record captures the statistics of one run.
func (r *Recorder) Record(result *monitor.Result) {
	stats := result.Stats
	r.linesRead.Set(float64(stats.LinesRead))
	r.linesSkipped.Set(float64(stats.LinesSkipped))
	r.jobsCompleted.Set(float64(stats.JobsCompleted))
	r.jobsUnmatched.Set(float64(stats.JobsUnmatched))
	r.jobsWarning.Set(float64(stats.Warnings))
	r.jobsError.Set(float64(stats.Errors))
	r.jobsAnomalous.Set(float64(stats.Anomalies))
	r.reportLines.Set(float64(stats.ReportLines))
	r.runDuration.Set(stats.Duration().Seconds())
	r.lastRunTS.Set(float64(stats.EndTime.Unix()))
}

// WriteTextfile writes the metrics in text exposition format. The file
// is written to a temporary path and renamed, so collectors never see
// a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
