// Package history extracts commit, branch, and file facts from a git
// repository by driving the git binary and parsing its machine output.
package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kersley/repogauge/internal/gitcmd"
	"github.com/kersley/repogauge/pkg/models"
)

// ExtractionError means a git command failed or timed out. Extraction
// cannot continue past one.
type ExtractionError struct {
	Op  string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("history extraction failed (%s): %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// logFormat emits hash, unix timestamp, author name, author email, and
// subject as one tab-delimited header line per commit.
const logFormat = "%H%x09%at%x09%aN%x09%aE%x09%s"

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeouts sets the per-command and validity-probe timeouts.
func WithTimeouts(command, probe time.Duration) Option {
	return func(e *Extractor) {
		e.cmdTimeout = command
		e.probeTimeout = probe
	}
}

// Extractor reads repository history through a command runner.
type Extractor struct {
	runner       gitcmd.Runner
	cmdTimeout   time.Duration
	probeTimeout time.Duration
}

// New creates an Extractor on top of the given runner.
func New(runner gitcmd.Runner, opts ...Option) *Extractor {
	e := &Extractor{
		runner:       runner,
		cmdTimeout:   gitcmd.DefaultTimeout,
		probeTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) run(ctx context.Context, op string, args ...string) (string, error) {
	out, err := e.runner.Run(ctx, e.cmdTimeout, args...)
	if err != nil {
		return "", &ExtractionError{Op: op, Err: err}
	}
	return out, nil
}

// Probe checks that the working directory is inside a git repository. It
// uses the short probe timeout so a wedged repository fails fast.
func (e *Extractor) Probe(ctx context.Context) error {
	if _, err := e.runner.Run(ctx, e.probeTimeout, "rev-parse", "--git-dir"); err != nil {
		return &ExtractionError{Op: "probe", Err: err}
	}
	return nil
}

// DefaultBranch resolves the branch to analyze. The chain mirrors how
// hosting providers advertise a default: the origin HEAD symref, then the
// currently checked-out branch, then well-known names, then "master".
func (e *Extractor) DefaultBranch(ctx context.Context) (string, error) {
	if out, err := e.runner.Run(ctx, e.cmdTimeout, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		name := strings.TrimPrefix(strings.TrimSpace(out), "refs/remotes/origin/")
		if name != "" {
			return name, nil
		}
	}

	if out, err := e.runner.Run(ctx, e.cmdTimeout, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		name := strings.TrimSpace(out)
		// Detached HEAD prints the literal string "HEAD".
		if name != "" && name != "HEAD" {
			return name, nil
		}
	}

	branches, err := e.branchNames(ctx)
	if err != nil {
		return "", err
	}
	present := make(map[string]bool, len(branches))
	for _, b := range branches {
		present[b] = true
	}
	for _, candidate := range []string{"main", "master", "develop", "development"} {
		if present[candidate] {
			return candidate, nil
		}
	}
	return "master", nil
}

func (e *Extractor) branchNames(ctx context.Context) ([]string, error) {
	out, err := e.run(ctx, "branch list", "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Commits reads the full commit history of branch in a single log pass and
// returns the parsed records plus the number of lines that could not be
// parsed. Malformed lines are skipped, never fatal.
func (e *Extractor) Commits(ctx context.Context, branch string) ([]models.CommitRecord, int, error) {
	out, err := e.run(ctx, "log", "log", branch, "--numstat", "--pretty=format:"+logFormat)
	if err != nil {
		return nil, 0, err
	}
	commits, parseErrors := parseLog(out)
	return commits, parseErrors, nil
}

// parseLog walks tab-delimited log output. Header lines start with a
// 40-hex hash and carry at least five fields; numstat lines are
// additions, deletions, path. Subjects and paths may themselves contain
// tabs, so trailing fields are rejoined.
func parseLog(out string) ([]models.CommitRecord, int) {
	var (
		commits     []models.CommitRecord
		current     *models.CommitRecord
		parseErrors int
	)

	flush := func() {
		if current != nil {
			commits = append(commits, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		if len(fields) >= 5 && isCommitHash(fields[0]) {
			ts, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				parseErrors++
				flush()
				continue
			}
			flush()
			current = &models.CommitRecord{
				Hash:        fields[0],
				Timestamp:   time.Unix(ts, 0).UTC(),
				AuthorName:  fields[2],
				AuthorEmail: fields[3],
				Subject:     strings.Join(fields[4:], "\t"),
			}
			continue
		}

		if current != nil && len(fields) >= 3 && isChangeCount(fields[0]) && isChangeCount(fields[1]) {
			binary := fields[0] == "-"
			current.Files = append(current.Files, models.FileChange{
				Path:      strings.Join(fields[2:], "\t"),
				Additions: atoiOrZero(fields[0]),
				Deletions: atoiOrZero(fields[1]),
				Binary:    binary,
			})
			continue
		}

		parseErrors++
	}
	flush()

	return commits, parseErrors
}

func isCommitHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// isChangeCount accepts numstat count fields: digits, or "-" for binary.
func isChangeCount(s string) bool {
	if s == "-" {
		return true
	}
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Branches returns all local branches with their commit counts and last
// commit times. The branch matching defaultBranch is flagged.
func (e *Extractor) Branches(ctx context.Context, defaultBranch string) ([]models.BranchInfo, error) {
	names, err := e.branchNames(ctx)
	if err != nil {
		return nil, err
	}

	branches := make([]models.BranchInfo, 0, len(names))
	for _, name := range names {
		info := models.BranchInfo{Name: name, IsDefault: name == defaultBranch}

		countOut, err := e.run(ctx, "rev-list", "rev-list", "--count", name)
		if err != nil {
			return nil, err
		}
		info.CommitCount = atoiOrZero(strings.TrimSpace(countOut))

		tsOut, err := e.run(ctx, "branch tip", "log", "-1", "--format=%at", name)
		if err != nil {
			return nil, err
		}
		if ts, err := strconv.ParseInt(strings.TrimSpace(tsOut), 10, 64); err == nil {
			info.LastCommit = time.Unix(ts, 0).UTC()
		}

		branches = append(branches, info)
	}
	return branches, nil
}

// TotalCommits counts the commits reachable from branch.
func (e *Extractor) TotalCommits(ctx context.Context, branch string) (int, error) {
	out, err := e.run(ctx, "rev-list", "rev-list", "--count", branch)
	if err != nil {
		return 0, err
	}
	return atoiOrZero(strings.TrimSpace(out)), nil
}

// FileEntry is a tracked blob at the tip of the analyzed branch.
type FileEntry struct {
	Path string
	Size int64
}

// ListFiles enumerates tracked blobs via ls-tree. Submodule entries
// (mode 160000) carry no content and are skipped.
func (e *Extractor) ListFiles(ctx context.Context, branch string) ([]FileEntry, error) {
	out, err := e.run(ctx, "ls-tree", "ls-tree", "-r", "-l", "-z", branch)
	if err != nil {
		return nil, err
	}

	var files []FileEntry
	for _, record := range strings.Split(out, "\x00") {
		if record == "" {
			continue
		}
		// <mode> <type> <hash> <size>\t<path>
		tab := strings.IndexByte(record, '\t')
		if tab < 0 {
			continue
		}
		meta := strings.Fields(record[:tab])
		path := record[tab+1:]
		if len(meta) < 4 || path == "" {
			continue
		}
		if meta[0] == "160000" || meta[1] != "blob" {
			continue
		}
		size, _ := strconv.ParseInt(meta[3], 10, 64)
		files = append(files, FileEntry{Path: path, Size: size})
	}
	return files, nil
}
