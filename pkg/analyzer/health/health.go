// Package health derives repository-level health from the aggregate: bus
// factor, a 0-100 quality score, and prioritized recommendations.
package health

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kersley/repogauge/pkg/models"
)

// Compute derives the health metrics. Averages cover only files with valid
// metrics; a repository with none skips the metric penalties entirely.
func Compute(data *models.RepositoryData) models.ProjectHealthMetrics {
	h := models.ProjectHealthMetrics{
		TotalFiles:                  len(data.Files),
		TotalCommits:                len(data.Commits),
		TotalAuthors:                len(data.Authors),
		MaintainabilityDistribution: make(map[models.MaintainabilityStatus]int),
	}

	var ccs, mis []float64
	validFiles := 0
	for _, f := range data.Files {
		if !f.Metrics.Valid {
			continue
		}
		validFiles++
		ccs = append(ccs, float64(f.Metrics.Cyclomatic))
		mis = append(mis, f.Metrics.MIRaw)
		h.MaintainabilityDistribution[f.Metrics.MIStatus]++

		if f.IsLarge() {
			h.LargeFiles++
		}
		if f.IsComplex() {
			h.ComplexFiles++
		}
		if f.Metrics.MIRaw < 0 {
			h.CriticalFiles++
		}
	}
	if len(ccs) > 0 {
		h.AverageComplexity = stat.Mean(ccs, nil)
		h.AverageMaintainability = stat.Mean(mis, nil)
	}

	h.BusFactor = busFactor(data.Authors, len(data.Commits))
	h.QualityScore = qualityScore(h, validFiles)
	h.Recommendations = recommendations(h)
	return h
}

// busFactor counts how many of the most active authors it takes to cover
// half the commits. A lone prolific author yields 1; no history yields 0.
func busFactor(authors map[string]*models.AuthorStatistics, totalCommits int) int {
	if len(authors) == 0 || totalCommits == 0 {
		return 0
	}

	counts := make([]int, 0, len(authors))
	for _, a := range authors {
		counts = append(counts, a.Commits)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	threshold := totalCommits / 2
	cumulative := 0
	for i, c := range counts {
		cumulative += c
		if cumulative >= threshold {
			return i + 1
		}
	}
	return len(counts)
}

// qualityScore starts at 100 and applies capped penalties for complexity,
// maintainability, oversized files, and knowledge concentration.
func qualityScore(h models.ProjectHealthMetrics, validFiles int) float64 {
	score := 100.0

	if validFiles > 0 {
		if h.AverageComplexity > 10 {
			score -= min((h.AverageComplexity-10)*3, 30)
		}
		if h.AverageMaintainability < 65 {
			score -= min((65-h.AverageMaintainability)*0.5, 30)
		}
		largeRatio := float64(h.LargeFiles) / float64(validFiles)
		score -= min(largeRatio*100, 20)
	}

	switch {
	case h.BusFactor <= 2:
		score -= 20
	case h.BusFactor <= 4:
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	return score
}

func recommendations(h models.ProjectHealthMetrics) []string {
	var recs []string

	if h.QualityScore < 50 {
		recs = append(recs, "Code quality score is low. Prioritize refactoring the most complex and least maintainable files.")
	}
	if h.BusFactor <= 2 {
		recs = append(recs, fmt.Sprintf("Bus factor is %d. Spread knowledge through code review and pairing to reduce key-person risk.", h.BusFactor))
	}
	if h.ComplexFiles > 0 {
		recs = append(recs, fmt.Sprintf("%d file(s) exceed cyclomatic complexity 20. Break them into smaller units.", h.ComplexFiles))
	}
	if h.CriticalFiles > 0 {
		recs = append(recs, fmt.Sprintf("%d file(s) have critical maintainability. Schedule dedicated cleanup time.", h.CriticalFiles))
	}
	return recs
}
