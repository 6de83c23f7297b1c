package models

// ProjectHealthMetrics is the derived, repository-level health summary.
type ProjectHealthMetrics struct {
	BusFactor    int     `json:"bus_factor"`
	QualityScore float64 `json:"quality_score"` // 0..100

	TotalFiles   int `json:"total_files"`
	TotalCommits int `json:"total_commits"`
	TotalAuthors int `json:"total_authors"`

	AverageComplexity      float64 `json:"average_complexity"`
	AverageMaintainability float64 `json:"average_maintainability"` // raw MI mean

	LargeFiles    int `json:"large_files"`    // physical LOC > 500
	ComplexFiles  int `json:"complex_files"`  // cyclomatic > 20
	CriticalFiles int `json:"critical_files"` // raw MI < 0

	MaintainabilityDistribution map[MaintainabilityStatus]int `json:"maintainability_distribution"`

	Recommendations []string `json:"recommendations"`
}
