// Package aggregate folds commit records, tracked files, and per-file
// metrics into the repository-level aggregate. Folding is single-threaded;
// the per-file pipeline hands results over before aggregation starts.
package aggregate

import (
	"github.com/kersley/repogauge/pkg/analyzer/history"
	"github.com/kersley/repogauge/pkg/config"
	"github.com/kersley/repogauge/pkg/models"
)

// Aggregator accumulates a RepositoryData. Not safe for concurrent use.
type Aggregator struct {
	cfg  *config.Config
	data *models.RepositoryData
}

// New creates an empty aggregator for the repository at path.
func New(path string, cfg *config.Config) *Aggregator {
	return &Aggregator{cfg: cfg, data: models.NewRepositoryData(path)}
}

// AddFiles registers tracked files that pass the inclusion filter and
// fills the extension histogram. Must run before AddCommit so revision
// counting has its targets.
func (a *Aggregator) AddFiles(entries []history.FileEntry) {
	for _, entry := range entries {
		if !a.cfg.ShouldInclude(entry.Path) {
			continue
		}
		a.data.Files[entry.Path] = &models.FileStatistics{
			Path:      entry.Path,
			Extension: a.cfg.ExtensionOf(entry.Path),
			SizeBytes: entry.Size,
		}
		a.data.Extensions[a.cfg.ExtensionOf(entry.Path)]++
	}
}

// AddCommit folds one commit into author, activity, file, and date-bound
// accumulators. Commits may arrive in any order.
func (a *Aggregator) AddCommit(c models.CommitRecord) {
	a.data.Commits = append(a.data.Commits, c)

	author, ok := a.data.Authors[c.AuthorName]
	if !ok {
		author = models.NewAuthorStatistics(c.AuthorName, c.AuthorEmail)
		a.data.Authors[c.AuthorName] = author
	}
	author.RecordCommit(&c)

	a.data.Activity.Record(c.Timestamp)

	if a.data.FirstCommit.IsZero() || c.Timestamp.Before(a.data.FirstCommit) {
		a.data.FirstCommit = c.Timestamp
	}
	if c.Timestamp.After(a.data.LastCommit) {
		a.data.LastCommit = c.Timestamp
	}

	for _, change := range c.Files {
		fs, ok := a.data.Files[change.Path]
		if !ok {
			// Deleted, renamed-away, or filtered files do not
			// accumulate revisions.
			continue
		}
		fs.Revisions++
		if c.Timestamp.After(fs.LastModified) {
			fs.LastModified = c.Timestamp
			fs.LastModifiedBy = c.AuthorName
		}
	}
}

// SetMetrics attaches lexical metrics to a tracked file.
func (a *Aggregator) SetMetrics(path string, m models.CodeMetrics) {
	if fs, ok := a.data.Files[path]; ok {
		fs.Metrics = m
	}
}

// FilePaths lists the registered files, for the per-file pipeline.
func (a *Aggregator) FilePaths() []string {
	paths := make([]string, 0, len(a.data.Files))
	for path := range a.data.Files {
		paths = append(paths, path)
	}
	return paths
}

// Result exposes the aggregate.
func (a *Aggregator) Result() *models.RepositoryData {
	return a.data
}
