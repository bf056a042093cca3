package model

import "time"

// RunStatus represents the current state of a pipeline run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusFetching    RunStatus = "fetching"
	RunStatusEnriching   RunStatus = "enriching"
	RunStatusSummarizing RunStatus = "summarizing"
	RunStatusExporting   RunStatus = "exporting"
	RunStatusComplete    RunStatus = "complete"
	RunStatusFailed      RunStatus = "failed"
)

// PhaseStatus represents the outcome of a single pipeline phase.
type PhaseStatus string

const (
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
)

// PhaseResult records the outcome of one pipeline phase.
type PhaseResult struct {
	Name     string      `json:"name"`
	Status   PhaseStatus `json:"status"`
	Duration int64       `json:"duration_ms"`
	Error    string      `json:"error,omitempty"`
}

// RunResult holds the final outcome of a pipeline run.
type RunResult struct {
	RunID               string         `json:"run_id"`
	TotalFetched        int            `json:"total_fetched"`
	TotalEnriched       int            `json:"total_enriched"`
	TotalUnique         int            `json:"total_unique"`
	AverageQualityScore float64        `json:"average_quality_score"`
	Quality             QualitySummary `json:"data_quality_summary"`
	Phases              []PhaseResult  `json:"phases"`
	OutputFiles         []string       `json:"output_files,omitempty"`
	Error               string         `json:"error,omitempty"`
}

// Run represents a single pipeline execution recorded in the store.
type Run struct {
	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
