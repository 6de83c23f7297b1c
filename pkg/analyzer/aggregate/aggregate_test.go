package aggregate

import (
	"testing"
	"time"

	"github.com/kersley/repogauge/pkg/analyzer/history"
	"github.com/kersley/repogauge/pkg/config"
	"github.com/kersley/repogauge/pkg/models"
)

func commitAt(author string, ts time.Time, paths ...string) models.CommitRecord {
	c := models.CommitRecord{
		Hash:        "0000000000000000000000000000000000000000",
		AuthorName:  author,
		AuthorEmail: author + "@example.com",
		Timestamp:   ts,
	}
	for _, p := range paths {
		c.Files = append(c.Files, models.FileChange{Path: p, Additions: 1})
	}
	return c
}

func TestAddFilesRespectsFilter(t *testing.T) {
	agg := New("/repo", config.DefaultConfig())
	agg.AddFiles([]history.FileEntry{
		{Path: "main.go", Size: 100},
		{Path: "Makefile", Size: 50},
		{Path: ".env", Size: 10},
		{Path: "logo.png", Size: 9000},
	})

	data := agg.Result()
	if _, ok := data.Files["main.go"]; !ok {
		t.Error("main.go should be tracked")
	}
	if _, ok := data.Files["Makefile"]; !ok {
		t.Error("Makefile should be tracked despite missing extension")
	}
	if _, ok := data.Files[".env"]; ok {
		t.Error(".env must be excluded")
	}
	if _, ok := data.Files["logo.png"]; ok {
		t.Error("logo.png must be excluded")
	}
	if data.Extensions["go"] != 1 {
		t.Errorf("extension histogram: %v", data.Extensions)
	}
	if data.Extensions[""] != 1 {
		t.Errorf("extensionless bucket missing: %v", data.Extensions)
	}
}

func TestDateBoundsOrderIndependent(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	early := base.AddDate(0, -2, 0)
	late := base.AddDate(0, 1, 0)

	// Deliver out of order, as cherry-picked history does.
	orders := [][]time.Time{
		{base, early, late},
		{late, base, early},
		{early, late, base},
	}
	for _, order := range orders {
		agg := New("/repo", config.DefaultConfig())
		for _, ts := range order {
			agg.AddCommit(commitAt("alice", ts))
		}
		data := agg.Result()
		if !data.FirstCommit.Equal(early) || !data.LastCommit.Equal(late) {
			t.Errorf("order %v: bounds [%v, %v]", order, data.FirstCommit, data.LastCommit)
		}
		author := data.Authors["alice"]
		if !author.FirstCommit.Equal(early) || !author.LastCommit.Equal(late) {
			t.Errorf("author bounds wrong: [%v, %v]", author.FirstCommit, author.LastCommit)
		}
	}
}

func TestAuthorAccumulation(t *testing.T) {
	agg := New("/repo", config.DefaultConfig())
	day1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 17, 0, 0, 0, time.UTC)

	agg.AddCommit(commitAt("alice", day1))
	agg.AddCommit(commitAt("alice", day1.Add(2*time.Hour)))
	agg.AddCommit(commitAt("alice", day2))
	agg.AddCommit(commitAt("bob", day2))

	data := agg.Result()
	if len(data.Authors) != 2 {
		t.Fatalf("authors = %d, want 2", len(data.Authors))
	}
	alice := data.Authors["alice"]
	if alice.Commits != 3 {
		t.Errorf("alice commits = %d, want 3", alice.Commits)
	}
	if alice.DaysActive() != 2 {
		t.Errorf("alice active days = %d, want 2", alice.DaysActive())
	}
	if alice.CommitsByHour[9] != 1 || alice.CommitsByHour[11] != 1 || alice.CommitsByHour[17] != 1 {
		t.Errorf("hour histogram wrong: %v", alice.CommitsByHour)
	}
	if data.Activity.CommitsByYM["2024-01"] != 4 {
		t.Errorf("year-month histogram: %v", data.Activity.CommitsByYM)
	}
}

func TestRevisionCounting(t *testing.T) {
	agg := New("/repo", config.DefaultConfig())
	agg.AddFiles([]history.FileEntry{{Path: "a.go"}, {Path: "b.go"}})

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	agg.AddCommit(commitAt("alice", t0, "a.go", "b.go"))
	agg.AddCommit(commitAt("alice", t0.AddDate(0, 0, 1), "a.go"))
	agg.AddCommit(commitAt("alice", t0.AddDate(0, 0, 2), "gone.go"))

	data := agg.Result()
	if data.Files["a.go"].Revisions != 2 {
		t.Errorf("a.go revisions = %d, want 2", data.Files["a.go"].Revisions)
	}
	if data.Files["b.go"].Revisions != 1 {
		t.Errorf("b.go revisions = %d, want 1", data.Files["b.go"].Revisions)
	}
	if !data.Files["a.go"].LastModified.Equal(t0.AddDate(0, 0, 1)) {
		t.Errorf("a.go last modified = %v", data.Files["a.go"].LastModified)
	}
	if _, ok := data.Files["gone.go"]; ok {
		t.Error("untracked file must not appear")
	}
}

func TestAuthorshipTracking(t *testing.T) {
	agg := New("/repo", config.DefaultConfig())
	agg.AddFiles([]history.FileEntry{{Path: "a.go"}, {Path: "b.go"}})

	t0 := time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	// Delivered newest first: the older touch must not steal authorship.
	agg.AddCommit(commitAt("bob", t1, "a.go"))
	agg.AddCommit(commitAt("alice", t0, "a.go", "b.go"))

	data := agg.Result()
	if got := data.Files["a.go"].LastModifiedBy; got != "bob" {
		t.Errorf("a.go last modified by %q, want bob", got)
	}
	if got := data.Files["b.go"].LastModifiedBy; got != "alice" {
		t.Errorf("b.go last modified by %q, want alice", got)
	}

	alice := data.Authors["alice"]
	if len(alice.ModifiedFiles) != 2 || !alice.ModifiedFiles["a.go"] || !alice.ModifiedFiles["b.go"] {
		t.Errorf("alice modified files: %v", alice.ModifiedFiles)
	}
	if alice.CommitsByYear[2023] != 1 {
		t.Errorf("alice year histogram: %v", alice.CommitsByYear)
	}
	if bob := data.Authors["bob"]; bob.CommitsByYear[2024] != 1 || len(bob.ModifiedFiles) != 1 {
		t.Errorf("bob accumulators: years %v files %v", bob.CommitsByYear, bob.ModifiedFiles)
	}
}

func TestSetMetrics(t *testing.T) {
	agg := New("/repo", config.DefaultConfig())
	agg.AddFiles([]history.FileEntry{{Path: "a.go"}})

	agg.SetMetrics("a.go", models.CodeMetrics{Cyclomatic: 5, Valid: true})
	agg.SetMetrics("missing.go", models.CodeMetrics{Cyclomatic: 9, Valid: true})

	data := agg.Result()
	if data.Files["a.go"].Metrics.Cyclomatic != 5 {
		t.Error("metrics not attached")
	}
	if len(data.Files) != 1 {
		t.Error("SetMetrics must not create files")
	}
}
