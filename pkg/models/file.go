package models

import "time"

// FileStatistics combines history-derived facts about a tracked file with
// its lexical metrics.
type FileStatistics struct {
	Path           string      `json:"path"`
	Extension      string      `json:"extension"`
	SizeBytes      int64       `json:"size_bytes"`
	Revisions      int         `json:"revisions"`
	LastModified   time.Time   `json:"last_modified"`
	LastModifiedBy string      `json:"last_modified_by"`
	Metrics        CodeMetrics `json:"metrics"`
}

// IsLarge reports whether the file exceeds the physical-line threshold used
// by the health score.
func (f *FileStatistics) IsLarge() bool {
	return f.Metrics.LOC.Physical > 500
}

// IsComplex reports whether the file exceeds the cyclomatic threshold used
// by the health score.
func (f *FileStatistics) IsComplex() bool {
	return f.Metrics.Cyclomatic > 20
}
