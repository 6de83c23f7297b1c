// Package hotspot ranks files by combined change frequency and lexical
// complexity, flagging the spots where refactoring pays off most. Change
// coupling between files is mined from commit co-occurrence.
package hotspot

import (
	"sort"

	"github.com/kersley/repogauge/pkg/models"
)

const (
	// Co-change ratios at or below this are treated as noise.
	couplingThreshold = 0.3
	// At most this many coupled files are kept per hotspot.
	maxCoupledFiles = 5
	// Each coupled file adds this much to the risk score.
	couplingPenaltyStep = 5.0
	couplingPenaltyCap  = 25.0
)

// Compute scores every tracked file with at least one revision and valid
// metrics, sorted by descending risk. Requires commit records; when the
// aggregate carries none, coupling penalties are zero.
func Compute(data *models.RepositoryData) *models.HotspotReport {
	maxRevisions := 0
	for _, fs := range data.Files {
		if fs.Revisions > maxRevisions {
			maxRevisions = fs.Revisions
		}
	}

	coupled := changeCoupling(data.Commits)

	report := &models.HotspotReport{
		RiskCounts: make(map[models.RiskLevel]int),
	}
	for path, fs := range data.Files {
		if fs.Revisions == 0 || !fs.Metrics.Valid {
			continue
		}

		h := models.Hotspot{
			Path:         path,
			Revisions:    fs.Revisions,
			CoupledFiles: coupled[path],
		}
		h.ChurnScore = float64(fs.Revisions) / float64(maxRevisions) * 100
		h.ComplexityScore = complexityScore(fs.Metrics)
		h.CouplingPenalty = couplingPenaltyStep * float64(len(h.CoupledFiles))
		if h.CouplingPenalty > couplingPenaltyCap {
			h.CouplingPenalty = couplingPenaltyCap
		}
		h.RiskScore = h.ChurnScore*h.ComplexityScore/100 + h.CouplingPenalty
		h.Risk = models.ClassifyRisk(h.RiskScore)

		report.Hotspots = append(report.Hotspots, h)
		report.RiskCounts[h.Risk]++
	}

	sort.Slice(report.Hotspots, func(i, j int) bool {
		a, b := report.Hotspots[i], report.Hotspots[j]
		if a.RiskScore != b.RiskScore {
			return a.RiskScore > b.RiskScore
		}
		return a.Path < b.Path
	})
	return report
}

// complexityScore blends the maintainability index with raw cyclomatic
// complexity on a 0-100 scale. A low or negative index drives the first
// term toward 100.
func complexityScore(m models.CodeMetrics) float64 {
	fromMI := 100 - m.MIRaw/171*100
	if fromMI < 0 {
		fromMI = 0
	}
	fromCC := float64(m.Cyclomatic) * 2
	if fromCC > 100 {
		fromCC = 100
	}
	return fromMI*0.6 + fromCC*0.4
}

// changeCoupling mines co-change partners from commit history. Two files
// are coupled when the commits touching one mostly also touch the other;
// strength is co-occurrences over the smaller file's commit count.
func changeCoupling(commits []models.CommitRecord) map[string][]models.CoupledFile {
	fileCommits := make(map[string]int)
	pairCounts := make(map[[2]string]int)

	for _, c := range commits {
		unique := make(map[string]bool, len(c.Files))
		for _, change := range c.Files {
			unique[change.Path] = true
		}
		paths := make([]string, 0, len(unique))
		for p := range unique {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		for i, p := range paths {
			fileCommits[p]++
			for _, q := range paths[i+1:] {
				pairCounts[[2]string{p, q}]++
			}
		}
	}

	coupled := make(map[string][]models.CoupledFile)
	for pair, co := range pairCounts {
		smaller := fileCommits[pair[0]]
		if n := fileCommits[pair[1]]; n < smaller {
			smaller = n
		}
		strength := float64(co) / float64(smaller)
		if strength <= couplingThreshold {
			continue
		}
		coupled[pair[0]] = append(coupled[pair[0]], models.CoupledFile{Path: pair[1], Strength: strength})
		coupled[pair[1]] = append(coupled[pair[1]], models.CoupledFile{Path: pair[0], Strength: strength})
	}

	for path, partners := range coupled {
		sort.Slice(partners, func(i, j int) bool {
			if partners[i].Strength != partners[j].Strength {
				return partners[i].Strength > partners[j].Strength
			}
			return partners[i].Path < partners[j].Path
		})
		if len(partners) > maxCoupledFiles {
			partners = partners[:maxCoupledFiles]
		}
		coupled[path] = partners
	}
	return coupled
}
