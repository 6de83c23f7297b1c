// Package gitcmd runs git commands synchronously against a repository
// working directory. Stderr is merged into stdout so callers see whatever
// git printed when a command fails.
package gitcmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single git command.
const DefaultTimeout = 300 * time.Second

// Runner executes a git command and returns its combined output with
// trailing whitespace trimmed. A zero timeout selects the runner's default.
// Non-zero exit status and timeouts are both reported as a *CommandError.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, args ...string) (string, error)
}

// CommandError reports a failed git invocation.
type CommandError struct {
	Args     []string
	Output   string
	TimedOut bool
	Err      error
}

func (e *CommandError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("git %s: timed out", strings.Join(e.Args, " "))
	}
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExecRunner shells out to the git binary with the repository as working
// directory.
type ExecRunner struct {
	Dir     string
	Timeout time.Duration // default when Run receives zero
}

// NewRunner creates an ExecRunner for the repository at dir.
func NewRunner(dir string) *ExecRunner {
	return &ExecRunner{Dir: dir, Timeout: DefaultTimeout}
}

// Run executes git with the given arguments.
func (r *ExecRunner) Run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	if timeout <= 0 {
		timeout = r.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	output := strings.TrimRight(string(out), "\n\r ")

	if err != nil {
		return "", &CommandError{
			Args:     args,
			Output:   output,
			TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
			Err:      err,
		}
	}
	return output, nil
}
