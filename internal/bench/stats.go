package bench

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary aggregates the latency distribution across invocations.
// Latencies are milliseconds; success means exit code zero.
type Summary struct {
	Runs      int     `json:"runs"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	MinMS     float64 `json:"min_ms"`
	MaxMS     float64 `json:"max_ms"`
	MeanMS    float64 `json:"mean_ms"`
	MedianMS  float64 `json:"median_ms"`
	StdDevMS  float64 `json:"stddev_ms"`
	P25MS     float64 `json:"p25_ms"`
	P75MS     float64 `json:"p75_ms"`
	P95MS     float64 `json:"p95_ms"`
}

// Summarize computes the timing distribution over a set of invocations.
func Summarize(invocations []Invocation) (*Summary, error) {
	if len(invocations) == 0 {
		return nil, errors.New("no invocations to summarize")
	}

	durations := make(stats.Float64Data, 0, len(invocations))
	summary := &Summary{Runs: len(invocations)}
	for _, inv := range invocations {
		durations = append(durations, inv.DurationMS)
		if inv.ExitCode == 0 {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	var err error
	if summary.MinMS, err = durations.Min(); err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	if summary.MaxMS, err = durations.Max(); err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	if summary.MeanMS, err = durations.Mean(); err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	if summary.MedianMS, err = durations.Median(); err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}
	if summary.StdDevMS, err = durations.StandardDeviation(); err != nil {
		return nil, fmt.Errorf("stddev: %w", err)
	}
	if summary.P25MS, err = durations.Percentile(25); err != nil {
		return nil, fmt.Errorf("p25: %w", err)
	}
	if summary.P75MS, err = durations.Percentile(75); err != nil {
		return nil, fmt.Errorf("p75: %w", err)
	}
	if summary.P95MS, err = durations.Percentile(95); err != nil {
		return nil, fmt.Errorf("p95: %w", err)
	}

	return summary, nil
}
