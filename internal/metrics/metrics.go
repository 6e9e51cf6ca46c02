package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"smokecheck/internal/model"
)

// WriteTextfile writes the outcome of a run in the Prometheus text format,
// suitable for the node_exporter textfile collector or a CI artifact.
func WriteTextfile(path string, summary *model.Summary) error {
	reg := prometheus.NewRegistry()

	checkPassed := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smokecheck_check_passed",
			Help: "Whether a check passed (1) or failed (0)",
		},
		[]string{"check", "section"},
	)
	checksTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smokecheck_checks_total",
		Help: "Number of checks run",
	})
	checksPassed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smokecheck_checks_passed",
		Help: "Number of checks that passed",
	})
	runDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smokecheck_run_duration_seconds",
		Help: "Wall time of the run in seconds",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smokecheck_last_run_timestamp_seconds",
		Help: "Unix time the run started",
	})
	releaseInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smokecheck_release_info",
			Help: "Release the run validated",
		},
		[]string{"tag", "expected_version", "run_id"},
	)

	reg.MustRegister(checkPassed, checksTotal, checksPassed, runDuration, lastRun, releaseInfo)

	for _, r := range summary.Results {
		v := 0.0
		if r.Passed {
			v = 1
		}
		checkPassed.WithLabelValues(r.Name, r.Section).Set(v)
	}
	checksTotal.Set(float64(summary.Total()))
	checksPassed.Set(float64(summary.Passed()))
	runDuration.Set(summary.Duration.Seconds())
	if !summary.StartedAt.IsZero() {
		lastRun.Set(float64(summary.StartedAt.Unix()))
	}
	releaseInfo.WithLabelValues(summary.ReleaseTag, summary.ExpectedVersion, summary.RunID).Set(1)

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
