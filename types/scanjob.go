package types

import "time"

// ScanStatus represents the current status of a library scan job
type ScanStatus string

const (
	ScanStatusQueued    ScanStatus = "queued"
	ScanStatusScanning  ScanStatus = "scanning"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// ScanJob represents one background library scan. Progress counters are
// copied from the scanner's atomics when the job is read.
type ScanJob struct {
	ID          string     `json:"id"`
	Root        string     `json:"root"`
	Status      ScanStatus `json:"status"`
	Scanned     int        `json:"scanned"`
	Total       int        `json:"total"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
