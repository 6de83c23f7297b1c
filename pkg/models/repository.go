package models

import "time"

// ActivityStatistics holds repository-wide commit activity histograms.
type ActivityStatistics struct {
	CommitsByHour  [24]int        `json:"commits_by_hour"`
	CommitsByDOW   [7]int         `json:"commits_by_dow"` // 0 = Sunday
	CommitsByMonth [12]int        `json:"commits_by_month"`
	CommitsByYear  map[int]int    `json:"commits_by_year"`
	CommitsByYM    map[string]int `json:"commits_by_year_month"` // YYYY-MM
}

// NewActivityStatistics creates an empty activity accumulator.
func NewActivityStatistics() *ActivityStatistics {
	return &ActivityStatistics{
		CommitsByYear: make(map[int]int),
		CommitsByYM:   make(map[string]int),
	}
}

// Record folds one commit timestamp into the histograms.
func (s *ActivityStatistics) Record(ts time.Time) {
	s.CommitsByHour[ts.Hour()]++
	s.CommitsByDOW[int(ts.Weekday())]++
	s.CommitsByMonth[int(ts.Month())-1]++
	s.CommitsByYear[ts.Year()]++
	s.CommitsByYM[ts.Format("2006-01")]++
}

// Diagnostics counts non-fatal problems observed during an analysis run.
type Diagnostics struct {
	ParseErrors    int `json:"parse_errors"`
	FileReadErrors int `json:"file_read_errors"`
}

// RepositoryData is the root aggregate produced by an analysis run.
type RepositoryData struct {
	Path          string    `json:"path"`
	DefaultBranch string    `json:"default_branch"`
	FirstCommit   time.Time `json:"first_commit"`
	LastCommit    time.Time `json:"last_commit"`

	Commits  []CommitRecord               `json:"commits,omitempty"`
	Authors  map[string]*AuthorStatistics `json:"authors"`
	Files    map[string]*FileStatistics   `json:"files"`
	Branches []BranchInfo                 `json:"branches"`

	Extensions map[string]int      `json:"extensions"` // extension -> file count
	Activity   *ActivityStatistics `json:"activity"`

	Coupling    *CouplingReport      `json:"coupling,omitempty"`
	Hotspots    *HotspotReport       `json:"hotspots,omitempty"`
	Health      ProjectHealthMetrics `json:"health"`
	Diagnostics Diagnostics          `json:"diagnostics"`
}

// NewRepositoryData creates an empty aggregate for the given repository path.
func NewRepositoryData(path string) *RepositoryData {
	return &RepositoryData{
		Path:       path,
		Authors:    make(map[string]*AuthorStatistics),
		Files:      make(map[string]*FileStatistics),
		Extensions: make(map[string]int),
		Activity:   NewActivityStatistics(),
	}
}

// TotalCommits returns the number of commits folded into the aggregate.
func (r *RepositoryData) TotalCommits() int {
	return len(r.Commits)
}
