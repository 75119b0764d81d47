package models

import "time"

// Manifest is the advisory record of the most recent enumeration pass for a
// method. It is reporting only: the existence of a pair's output file on
// disk, never the manifest, decides whether the pair is complete.
type Manifest struct {
	// Run identification
	RunID      string    `json:"run_id"` // UUID for this pass
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Inputs the pass ran with
	Method      string `json:"method"`
	DatasetPath string `json:"dataset_path"`

	// Per-pair outcomes in enumeration order
	Pairs []PairRecord `json:"pairs"`

	// Aggregates
	Stats RunStats `json:"stats"`

	// Configuration snapshot (for mismatch detection in status output)
	ConfigHash string `json:"config_hash"` // SHA256 over method/targets/trial range
}

// PairRecord is one pair's outcome as persisted in the manifest
type PairRecord struct {
	Index      int     `json:"index"`
	Target     string  `json:"target"`
	Trial      int     `json:"trial"`
	Outcome    Outcome `json:"outcome"`
	OutputFile string  `json:"output_file"`
	ExitCode   int     `json:"exit_code,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMS int64   `json:"duration_ms,omitempty"`
}
