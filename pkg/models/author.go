package models

import "time"

// AuthorStatistics accumulates per-author activity across the history.
// Time bounds are folded with min/max so commits arriving out of order
// (merges, cherry-picks) never move FirstCommit forward or LastCommit back.
type AuthorStatistics struct {
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Commits       int            `json:"commits"`
	LinesAdded    int            `json:"lines_added"`
	LinesRemoved  int            `json:"lines_removed"`
	FirstCommit   time.Time      `json:"first_commit"`
	LastCommit    time.Time      `json:"last_commit"`
	ActiveDays     map[string]int  `json:"active_days"`      // YYYY-MM-DD -> commits
	CommitsByHour  [24]int         `json:"commits_by_hour"`  // hour of day
	CommitsByDOW   [7]int          `json:"commits_by_dow"`   // 0 = Sunday
	CommitsByMonth [12]int         `json:"commits_by_month"` // 0 = January
	CommitsByYear  map[int]int     `json:"commits_by_year"`
	ModifiedFiles  map[string]bool `json:"modified_files"`
}

// NewAuthorStatistics creates an empty accumulator for an author.
func NewAuthorStatistics(name, email string) *AuthorStatistics {
	return &AuthorStatistics{
		Name:          name,
		Email:         email,
		ActiveDays:    make(map[string]int),
		CommitsByYear: make(map[int]int),
		ModifiedFiles: make(map[string]bool),
	}
}

// RecordCommit folds one commit into the accumulator.
func (a *AuthorStatistics) RecordCommit(c *CommitRecord) {
	a.Commits++
	a.LinesAdded += c.LinesAdded()
	a.LinesRemoved += c.LinesRemoved()

	if a.FirstCommit.IsZero() || c.Timestamp.Before(a.FirstCommit) {
		a.FirstCommit = c.Timestamp
	}
	if c.Timestamp.After(a.LastCommit) {
		a.LastCommit = c.Timestamp
	}

	a.ActiveDays[c.Timestamp.Format("2006-01-02")]++
	a.CommitsByHour[c.Timestamp.Hour()]++
	a.CommitsByDOW[int(c.Timestamp.Weekday())]++
	a.CommitsByMonth[int(c.Timestamp.Month())-1]++
	a.CommitsByYear[c.Timestamp.Year()]++

	for _, change := range c.Files {
		a.ModifiedFiles[change.Path] = true
	}
}

// DaysActive returns the number of distinct days the author committed on.
func (a *AuthorStatistics) DaysActive() int {
	return len(a.ActiveDays)
}
