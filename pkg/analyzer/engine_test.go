package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kersley/repogauge/internal/vcs"
	"github.com/kersley/repogauge/pkg/config"
)

type okOpener struct{}

func (okOpener) Open(string) error { return nil }

type fakeRunner struct {
	outputs map[string]string
}

func (f *fakeRunner) Run(_ context.Context, _ time.Duration, args ...string) (string, error) {
	key := strings.Join(args, " ")
	if out, ok := f.outputs[key]; ok {
		return out, nil
	}
	return "", errors.New("unexpected command: " + key)
}

const testLogFormat = "%H%x09%at%x09%aN%x09%aE%x09%s"

func repoFixture(t *testing.T) (string, *fakeRunner) {
	t.Helper()
	dir := t.TempDir()

	goSrc := "package main\n\n// entry point\nfunc main() {\n\tif true {\n\t\tprintln(\"hi\")\n\t}\n}\n"
	pySrc := "class App:\n    def run(self):\n        pass\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(goSrc), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "app"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app", "app.py"), []byte(pySrc), 0o644))

	log := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\t1700000000\tAlice\talice@e.com\tinit\n" +
		"5\t0\tmain.go\n" +
		"3\t0\tapp/app.py\n" +
		"\n" +
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\t1700100000\tBob\tbob@e.com\ttweak\n" +
		"2\t1\tmain.go\n"

	lsTree := "100644 blob 1111111111111111111111111111111111111111      80\tmain.go\x00" +
		"100644 blob 2222222222222222222222222222222222222222      44\tapp/app.py\x00" +
		"100644 blob 3333333333333333333333333333333333333333      10\tgone.go\x00"

	runner := &fakeRunner{outputs: map[string]string{
		"rev-parse --git-dir":                   ".git",
		"symbolic-ref refs/remotes/origin/HEAD": "refs/remotes/origin/main",
		"log main --numstat --pretty=format:" + testLogFormat: log,
		"branch --format=%(refname:short)":                    "main",
		"rev-list --count main":                               "2",
		"log -1 --format=%at main":                            "1700100000",
		"ls-tree -r -l -z main":                               lsTree,
	}}
	return dir, runner
}

func TestEngineFullPipeline(t *testing.T) {
	prev := vcs.SetDefaultOpener(okOpener{})
	defer vcs.SetDefaultOpener(prev)

	dir, runner := repoFixture(t)

	var fractions []float64
	engine := New(dir,
		WithRunner(runner),
		WithWorkers(2),
		WithProgress(func(frac float64, _ string) {
			fractions = append(fractions, frac)
		}))

	data, err := engine.Analyze()
	require.NoError(t, err)

	assert.Equal(t, "main", data.DefaultBranch)
	assert.Len(t, data.Files, 3)
	assert.Len(t, data.Authors, 2)
	assert.Len(t, data.Branches, 1)
	assert.True(t, data.Branches[0].IsDefault)

	mainGo := data.Files["main.go"]
	require.NotNil(t, mainGo)
	assert.True(t, mainGo.Metrics.Valid)
	assert.Equal(t, 2, mainGo.Revisions)
	assert.Equal(t, 2, mainGo.Metrics.Cyclomatic) // one if
	assert.Greater(t, mainGo.Metrics.MIRaw, 0.0)

	// gone.go is tracked but absent from the working tree: zeroed and
	// invalid, counted as a read error, run still succeeds.
	goneGo := data.Files["gone.go"]
	require.NotNil(t, goneGo)
	assert.False(t, goneGo.Metrics.Valid)
	assert.Equal(t, 1, data.Diagnostics.FileReadErrors)

	assert.Equal(t, 2, data.Health.TotalCommits)
	assert.Equal(t, 3, data.Health.TotalFiles)
	assert.GreaterOrEqual(t, data.Health.QualityScore, 0.0)
	assert.LessOrEqual(t, data.Health.QualityScore, 100.0)
	assert.Equal(t, 1, data.Health.BusFactor)

	require.NotNil(t, data.Coupling)
	assert.NotEmpty(t, data.Coupling.Files)

	// Hotspot ranking covers revised files with valid metrics; main.go
	// changed twice and tops the list.
	require.NotNil(t, data.Hotspots)
	require.Len(t, data.Hotspots.Hotspots, 2)
	assert.Equal(t, "main.go", data.Hotspots.Hotspots[0].Path)
	assert.Equal(t, 100.0, data.Hotspots.Hotspots[0].ChurnScore)

	// Commits are dropped by default once health is derived.
	assert.Nil(t, data.Commits)

	// Progress is monotonic and finishes at 1.
	require.NotEmpty(t, fractions)
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestEngineKeepCommits(t *testing.T) {
	prev := vcs.SetDefaultOpener(okOpener{})
	defer vcs.SetDefaultOpener(prev)

	dir, runner := repoFixture(t)
	cfg := config.DefaultConfig()
	cfg.Analysis.KeepCommits = true

	data, err := New(dir, WithRunner(runner), WithConfig(cfg)).Analyze()
	require.NoError(t, err)
	assert.Len(t, data.Commits, 2)
}

func TestEngineBranchOverride(t *testing.T) {
	prev := vcs.SetDefaultOpener(okOpener{})
	defer vcs.SetDefaultOpener(prev)

	dir, runner := repoFixture(t)
	for _, key := range []string{
		"log main --numstat --pretty=format:" + testLogFormat,
		"rev-list --count main",
		"log -1 --format=%at main",
		"ls-tree -r -l -z main",
	} {
		runner.outputs[strings.ReplaceAll(key, "main", "develop")] = runner.outputs[key]
	}
	runner.outputs["branch --format=%(refname:short)"] = "main\ndevelop"

	cfg := config.DefaultConfig()
	cfg.Analysis.Branch = "develop"

	data, err := New(dir, WithRunner(runner), WithConfig(cfg)).Analyze()
	require.NoError(t, err)
	assert.Equal(t, "develop", data.DefaultBranch)
}

func TestEngineValidationError(t *testing.T) {
	_, err := New(t.TempDir()).Analyze()
	require.Error(t, err)

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestEngineCancellation(t *testing.T) {
	prev := vcs.SetDefaultOpener(okOpener{})
	defer vcs.SetDefaultOpener(prev)

	dir, runner := repoFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(dir, WithRunner(runner)).AnalyzeWithContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProgressDispatcherMonotonic(t *testing.T) {
	var got []float64
	d := newProgressDispatcher(func(frac float64, _ string) {
		got = append(got, frac)
	})

	d.update(0.2, "a")
	d.update(0.1, "stale") // must not regress
	d.update(0.9, "b")
	d.update(2.0, "overflow") // clamped

	assert.Equal(t, []float64{0.2, 0.2, 0.9, 1.0}, got)
}
