package models

import "time"

// Pair is one (target, trial) combination. Index is the experiment index:
// the zero-based enumeration position of the pair, assigned in declared
// target order and ascending trial order regardless of whether the pair's
// work ends up running.
type Pair struct {
	Index  int
	Target string
	Trial  int
}

// Outcome classifies what happened to a pair during a run
type Outcome string

const (
	// OutcomeRan means the predictor was invoked and exited zero
	OutcomeRan Outcome = "ran"
	// OutcomeSkippedExists means the output file was already on disk
	OutcomeSkippedExists Outcome = "skipped-exists"
	// OutcomeSkippedFilter means an experiment-index filter deselected the pair
	OutcomeSkippedFilter Outcome = "skipped-filter"
	// OutcomeFailed means the predictor failed to start, timed out, or exited non-zero
	OutcomeFailed Outcome = "failed"
)

// RunStats tracks statistics for one enumeration pass
type RunStats struct {
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	TotalPairs      int           `json:"total_pairs"`
	RanCount        int           `json:"ran_count"`
	SkippedExisting int           `json:"skipped_existing"`
	SkippedFiltered int           `json:"skipped_filtered"`
	FailureCount    int           `json:"failure_count"`
	TotalDuration   time.Duration `json:"total_duration"`
	AverageDuration time.Duration `json:"average_duration"`
}
