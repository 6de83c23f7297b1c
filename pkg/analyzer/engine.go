// Package analyzer orchestrates the full repository analysis pipeline:
// history extraction, per-file metrics, structural coupling, aggregation,
// and health scoring.
package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kersley/repogauge/internal/fileproc"
	"github.com/kersley/repogauge/internal/gitcmd"
	"github.com/kersley/repogauge/internal/vcs"
	"github.com/kersley/repogauge/pkg/analyzer/aggregate"
	"github.com/kersley/repogauge/pkg/analyzer/coupling"
	"github.com/kersley/repogauge/pkg/analyzer/health"
	"github.com/kersley/repogauge/pkg/analyzer/history"
	"github.com/kersley/repogauge/pkg/analyzer/hotspot"
	"github.com/kersley/repogauge/pkg/analyzer/lexical"
	"github.com/kersley/repogauge/pkg/analyzer/maintain"
	"github.com/kersley/repogauge/pkg/config"
	"github.com/kersley/repogauge/pkg/models"
)

// ValidationError means the target is not an analyzable repository. It is
// raised before any extraction work starts.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ProgressFunc receives the overall completion fraction in [0,1] and a
// phase message. Invocations are serialized and the fraction never moves
// backwards.
type ProgressFunc func(fraction float64, message string)

// Phase weights of the overall progress fraction.
const (
	weightExtract   = 0.4
	weightMetrics   = 0.3
	weightCoupling  = 0.1
	weightAggregate = 0.1
	weightHealth    = 0.1
)

// Option configures an Engine.
type Option func(*Engine)

// WithConfig supplies a configuration snapshot.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithRunner substitutes the git command runner, mainly for tests.
func WithRunner(r gitcmd.Runner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithWorkers overrides the per-file worker count.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithProgress registers a progress observer.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// Engine runs the analysis pipeline for one repository.
type Engine struct {
	path     string
	cfg      *config.Config
	runner   gitcmd.Runner
	workers  int
	progress ProgressFunc
}

// New creates an engine for the repository at path.
func New(path string, opts ...Option) *Engine {
	e := &Engine{path: path}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg == nil {
		e.cfg = config.DefaultConfig()
	}
	if e.runner == nil {
		r := gitcmd.NewRunner(path)
		if t := e.cfg.Analysis.CommandTimeout; t > 0 {
			r.Timeout = time.Duration(t) * time.Second
		}
		e.runner = r
	}
	if e.workers <= 0 {
		e.workers = e.cfg.Analysis.Workers
	}
	if e.workers <= 0 {
		e.workers = config.DefaultWorkers()
	}
	return e
}

// Analyze runs the pipeline with a background context.
func (e *Engine) Analyze() (*models.RepositoryData, error) {
	return e.AnalyzeWithContext(context.Background())
}

// fileResult carries one file's metrics out of the worker pool. Content is
// retained for the structural pass.
type fileResult struct {
	path    string
	metrics models.CodeMetrics
	content string
}

// AnalyzeWithContext runs the pipeline. Per-file failures degrade to
// zeroed metrics; validation and extraction failures abort the run.
func (e *Engine) AnalyzeWithContext(ctx context.Context) (*models.RepositoryData, error) {
	report := newProgressDispatcher(e.progress)

	if err := vcs.Validate(e.path); err != nil {
		return nil, &ValidationError{Path: e.path, Err: err}
	}

	extractor := history.New(e.runner, history.WithTimeouts(
		time.Duration(e.cfg.Analysis.CommandTimeout)*time.Second,
		time.Duration(e.cfg.Analysis.ProbeTimeout)*time.Second,
	))
	if err := extractor.Probe(ctx); err != nil {
		return nil, &ValidationError{Path: e.path, Err: err}
	}

	// Phase 1: history extraction, sequential.
	report.update(0, "resolving branch")
	branch := e.cfg.Analysis.Branch
	if branch == "" {
		resolved, err := extractor.DefaultBranch(ctx)
		if err != nil {
			return nil, err
		}
		branch = resolved
	}

	report.update(0.05*weightExtract, "reading history")
	commits, parseErrors, err := extractor.Commits(ctx, branch)
	if err != nil {
		return nil, err
	}

	report.update(0.7*weightExtract, "listing branches")
	branches, err := extractor.Branches(ctx, branch)
	if err != nil {
		return nil, err
	}

	report.update(0.9*weightExtract, "listing files")
	entries, err := extractor.ListFiles(ctx, branch)
	if err != nil {
		return nil, err
	}
	report.update(weightExtract, "history extracted")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agg := aggregate.New(e.path, e.cfg)
	agg.AddFiles(entries)
	paths := agg.FilePaths()

	// Phase 2: per-file lexical metrics on a bounded pool. Files that
	// fail keep the zeroed, invalid metrics they were registered with.
	readErrors := 0
	results, err := fileproc.MapFiles(ctx, paths, e.workers,
		func(_ context.Context, path string) (fileResult, error) {
			return e.analyzeFile(path)
		},
		func(completed, total int) {
			frac := weightExtract + weightMetrics*float64(completed)/float64(total)
			report.update(frac, fmt.Sprintf("analyzing files (%d/%d)", completed, total))
		},
		func(string, error) {
			readErrors++
		})
	if err != nil {
		return nil, err
	}
	report.update(weightExtract+weightMetrics, "files analyzed")

	// Phase 3: structural coupling over readable sources.
	var sources []coupling.File
	for _, r := range results {
		sources = append(sources, coupling.File{Path: r.path, Content: r.content})
	}
	couplingReport := coupling.Analyze(sources)
	report.update(weightExtract+weightMetrics+weightCoupling, "coupling analyzed")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 4: single-threaded aggregation.
	for _, c := range commits {
		agg.AddCommit(c)
	}
	for _, r := range results {
		agg.SetMetrics(r.path, r.metrics)
	}
	data := agg.Result()
	data.DefaultBranch = branch
	data.Branches = branches
	data.Coupling = couplingReport
	data.Diagnostics = models.Diagnostics{
		ParseErrors:    parseErrors,
		FileReadErrors: readErrors,
	}
	report.update(weightExtract+weightMetrics+weightCoupling+weightAggregate, "aggregated")

	// Phase 5: health scoring and hotspot ranking. Hotspots need the
	// commit records for change coupling, so they run before the records
	// are dropped.
	data.Health = health.Compute(data)
	data.Hotspots = hotspot.Compute(data)
	if !e.cfg.Analysis.KeepCommits {
		data.Commits = nil
	}
	report.update(1, "done")

	return data, nil
}

// analyzeFile reads one file from the working tree and computes its
// metrics. Unreadable or binary files report a FileReadError and keep
// their zeroed, invalid metrics.
func (e *Engine) analyzeFile(path string) (fileResult, error) {
	content, err := os.ReadFile(filepath.Join(e.path, path))
	if err != nil {
		return fileResult{}, &lexical.FileReadError{Path: path, Err: err}
	}

	metrics, err := lexical.Analyze(path, content)
	if err != nil {
		return fileResult{}, &lexical.FileReadError{Path: path, Err: err}
	}
	maintain.Score(&metrics)
	return fileResult{path: path, metrics: metrics, content: string(content)}, nil
}

// progressDispatcher serializes observer calls and enforces monotonicity.
type progressDispatcher struct {
	mu   sync.Mutex
	fn   ProgressFunc
	last float64
}

func newProgressDispatcher(fn ProgressFunc) *progressDispatcher {
	return &progressDispatcher{fn: fn}
}

func (d *progressDispatcher) update(fraction float64, message string) {
	if d.fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if fraction < d.last {
		fraction = d.last
	}
	if fraction > 1 {
		fraction = 1
	}
	d.last = fraction
	d.fn(fraction, message)
}
