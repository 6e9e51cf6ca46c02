package model

import "time"

// CheckResult is the outcome of one check. Details carry per-item lines
// (one per link, asset or file) shown under the check in the report.
type CheckResult struct {
	Name    string   `json:"name"`
	Section string   `json:"section"`
	Passed  bool     `json:"passed"`
	Message string   `json:"message,omitempty"`
	Details []Detail `json:"details,omitempty"`
}

type Detail struct {
	Label   string `json:"label"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// Summary aggregates a whole run.
type Summary struct {
	RunID           string        `json:"run_id"`
	ReleaseTag      string        `json:"release_tag"`
	ExpectedVersion string        `json:"expected_version"`
	Results         []CheckResult `json:"results"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
}

func (s *Summary) Total() int {
	return len(s.Results)
}

func (s *Summary) Passed() int {
	n := 0
	for _, r := range s.Results {
		if r.Passed {
			n++
		}
	}
	return n
}

func (s *Summary) Failed() int {
	return s.Total() - s.Passed()
}

// Percent returns the share of passed checks, 0 when nothing ran.
func (s *Summary) Percent() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Passed()) / float64(s.Total()) * 100
}

// OK reports whether at least one check ran and all of them passed.
func (s *Summary) OK() bool {
	return s.Total() > 0 && s.Failed() == 0
}
