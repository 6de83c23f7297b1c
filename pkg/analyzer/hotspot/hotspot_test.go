package hotspot

import (
	"testing"
	"time"

	"github.com/kersley/repogauge/pkg/models"
)

func fileStats(revisions int, miRaw float64, cc int, valid bool) *models.FileStatistics {
	return &models.FileStatistics{
		Revisions: revisions,
		Metrics: models.CodeMetrics{
			MIRaw:      miRaw,
			Cyclomatic: cc,
			Valid:      valid,
		},
	}
}

func commitTouching(paths ...string) models.CommitRecord {
	c := models.CommitRecord{
		Hash:      "0000000000000000000000000000000000000000",
		Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, p := range paths {
		c.Files = append(c.Files, models.FileChange{Path: p, Additions: 1})
	}
	return c
}

func findHotspot(t *testing.T, report *models.HotspotReport, path string) models.Hotspot {
	t.Helper()
	for _, h := range report.Hotspots {
		if h.Path == path {
			return h
		}
	}
	t.Fatalf("hotspot %s missing from report", path)
	return models.Hotspot{}
}

func TestComputeScoresAndRanking(t *testing.T) {
	data := models.NewRepositoryData("/repo")
	data.Files["core/engine.go"] = fileStats(4, 0, 50, true)
	data.Files["util/helpers.go"] = fileStats(2, 171, 0, true)
	data.Files["logo.png"] = fileStats(3, 0, 0, false) // invalid metrics
	data.Files["fresh.go"] = fileStats(0, 80, 1, true) // never revised

	// engine and helpers always change together; engine also moves alone.
	data.Commits = []models.CommitRecord{
		commitTouching("core/engine.go", "util/helpers.go"),
		commitTouching("core/engine.go", "util/helpers.go"),
		commitTouching("core/engine.go"),
		commitTouching("core/engine.go"),
	}

	report := Compute(data)
	if len(report.Hotspots) != 2 {
		t.Fatalf("hotspots = %d, want 2", len(report.Hotspots))
	}

	engine := findHotspot(t, report, "core/engine.go")
	if engine.ChurnScore != 100 {
		t.Errorf("engine churn = %f, want 100", engine.ChurnScore)
	}
	// Zero maintainability and CC 50 saturate both complexity terms.
	if engine.ComplexityScore != 100 {
		t.Errorf("engine complexity = %f, want 100", engine.ComplexityScore)
	}
	if engine.CouplingPenalty != 5 {
		t.Errorf("engine penalty = %f, want 5", engine.CouplingPenalty)
	}
	if engine.RiskScore != 105 {
		t.Errorf("engine risk = %f, want 105", engine.RiskScore)
	}
	if engine.Risk != models.RiskCritical {
		t.Errorf("engine risk level = %s, want critical", engine.Risk)
	}
	if len(engine.CoupledFiles) != 1 || engine.CoupledFiles[0].Path != "util/helpers.go" {
		t.Errorf("engine coupled files: %v", engine.CoupledFiles)
	}
	if engine.CoupledFiles[0].Strength != 1 {
		t.Errorf("coupling strength = %f, want 1", engine.CoupledFiles[0].Strength)
	}

	helpers := findHotspot(t, report, "util/helpers.go")
	if helpers.ChurnScore != 50 {
		t.Errorf("helpers churn = %f, want 50", helpers.ChurnScore)
	}
	if helpers.ComplexityScore != 0 {
		t.Errorf("helpers complexity = %f, want 0", helpers.ComplexityScore)
	}
	if helpers.RiskScore != 5 {
		t.Errorf("helpers risk = %f, want 5 (penalty only)", helpers.RiskScore)
	}
	if helpers.Risk != models.RiskLow {
		t.Errorf("helpers risk level = %s, want low", helpers.Risk)
	}

	// Sorted by descending risk.
	if report.Hotspots[0].Path != "core/engine.go" {
		t.Errorf("top hotspot = %s, want core/engine.go", report.Hotspots[0].Path)
	}
	if report.RiskCounts[models.RiskCritical] != 1 || report.RiskCounts[models.RiskLow] != 1 {
		t.Errorf("risk counts: %v", report.RiskCounts)
	}
}

func TestWeakCoChangeIgnored(t *testing.T) {
	data := models.NewRepositoryData("/repo")
	data.Files["x.go"] = fileStats(4, 100, 3, true)
	data.Files["y.go"] = fileStats(4, 100, 3, true)

	// One shared commit out of four each: strength 0.25, under threshold.
	data.Commits = []models.CommitRecord{
		commitTouching("x.go", "y.go"),
		commitTouching("x.go"), commitTouching("x.go"), commitTouching("x.go"),
		commitTouching("y.go"), commitTouching("y.go"), commitTouching("y.go"),
	}

	report := Compute(data)
	for _, h := range report.Hotspots {
		if len(h.CoupledFiles) != 0 {
			t.Errorf("%s coupled files: %v, want none", h.Path, h.CoupledFiles)
		}
		if h.CouplingPenalty != 0 {
			t.Errorf("%s penalty = %f, want 0", h.Path, h.CouplingPenalty)
		}
	}
}

func TestDuplicatePathsInCommitCountOnce(t *testing.T) {
	// A rename recorded as two changes of the same path must not inflate
	// co-occurrence counts.
	data := models.NewRepositoryData("/repo")
	data.Files["a.go"] = fileStats(1, 100, 1, true)
	data.Files["b.go"] = fileStats(1, 100, 1, true)
	data.Commits = []models.CommitRecord{
		commitTouching("a.go", "a.go", "b.go"),
	}

	report := Compute(data)
	a := findHotspot(t, report, "a.go")
	if len(a.CoupledFiles) != 1 || a.CoupledFiles[0].Strength != 1 {
		t.Errorf("a.go coupled files: %v", a.CoupledFiles)
	}
}

func TestCouplingPenaltyCapped(t *testing.T) {
	data := models.NewRepositoryData("/repo")
	hub := "hub.go"
	data.Files[hub] = fileStats(1, 100, 1, true)

	paths := []string{hub}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		p := name + ".go"
		data.Files[p] = fileStats(1, 100, 1, true)
		paths = append(paths, p)
	}
	data.Commits = []models.CommitRecord{commitTouching(paths...)}

	report := Compute(data)
	h := findHotspot(t, report, hub)
	if len(h.CoupledFiles) != 5 {
		t.Errorf("coupled files = %d, want capped at 5", len(h.CoupledFiles))
	}
	if h.CouplingPenalty != 25 {
		t.Errorf("penalty = %f, want capped at 25", h.CouplingPenalty)
	}
}

func TestRiskLevels(t *testing.T) {
	tests := []struct {
		score float64
		want  models.RiskLevel
	}{
		{75, models.RiskCritical},
		{60, models.RiskCritical},
		{59.9, models.RiskHigh},
		{40, models.RiskHigh},
		{39.9, models.RiskMedium},
		{20, models.RiskMedium},
		{19.9, models.RiskLow},
		{0, models.RiskLow},
	}
	for _, tt := range tests {
		if got := models.ClassifyRisk(tt.score); got != tt.want {
			t.Errorf("ClassifyRisk(%f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestTop(t *testing.T) {
	report := &models.HotspotReport{
		Hotspots: []models.Hotspot{{Path: "a"}, {Path: "b"}, {Path: "c"}},
	}
	if got := report.Top(2); len(got) != 2 || got[0].Path != "a" {
		t.Errorf("Top(2) = %v", got)
	}
	if got := report.Top(10); len(got) != 3 {
		t.Errorf("Top(10) = %d entries, want 3", len(got))
	}
}
