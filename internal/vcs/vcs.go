// Package vcs provides version control system abstractions.
package vcs

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Opener abstracts repository opening so tests can substitute failures
// without touching the filesystem.
type Opener interface {
	Open(path string) error
}

type gitOpener struct{}

func (gitOpener) Open(path string) error {
	_, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: false})
	return err
}

var defaultOpener Opener = gitOpener{}

// SetDefaultOpener replaces the opener used by Validate and returns the
// previous one. Intended for tests.
func SetDefaultOpener(o Opener) Opener {
	prev := defaultOpener
	defaultOpener = o
	return prev
}

// Validate checks that path is the root of a git repository.
func Validate(path string) error {
	if err := defaultOpener.Open(path); err != nil {
		return fmt.Errorf("not a git repository: %s: %w", path, err)
	}
	return nil
}
