package models

// RiskLevel buckets a hotspot's combined risk score.
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

// ClassifyRisk maps a risk score to its level.
func ClassifyRisk(score float64) RiskLevel {
	switch {
	case score >= 60:
		return RiskCritical
	case score >= 40:
		return RiskHigh
	case score >= 20:
		return RiskMedium
	default:
		return RiskLow
	}
}

// CoupledFile is a file that tends to change in the same commits as the
// hotspot it is attached to. Strength is the co-change ratio in (0,1].
type CoupledFile struct {
	Path     string  `json:"path"`
	Strength float64 `json:"strength"`
}

// Hotspot scores one file by how often it changes and how hard it is to
// change safely.
type Hotspot struct {
	Path            string        `json:"path"`
	Revisions       int           `json:"revisions"`
	ChurnScore      float64       `json:"churn_score"`      // 0-100
	ComplexityScore float64       `json:"complexity_score"` // 0-100
	CouplingPenalty float64       `json:"coupling_penalty"` // 0-25
	RiskScore       float64       `json:"risk_score"`
	Risk            RiskLevel     `json:"risk"`
	CoupledFiles    []CoupledFile `json:"coupled_files,omitempty"`
}

// HotspotReport ranks files by combined churn and complexity risk.
type HotspotReport struct {
	Hotspots   []Hotspot         `json:"hotspots"`
	RiskCounts map[RiskLevel]int `json:"risk_counts"`
}

// Top returns the n highest-risk hotspots.
func (r *HotspotReport) Top(n int) []Hotspot {
	if n > len(r.Hotspots) {
		n = len(r.Hotspots)
	}
	return r.Hotspots[:n]
}
