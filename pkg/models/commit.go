package models

import "time"

// FileChange is a single file touched by a commit. Binary files report
// zero additions and deletions.
type FileChange struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Binary    bool   `json:"binary,omitempty"`
}

// CommitRecord is one commit as parsed from history. Records may arrive in
// any order; consumers must not assume chronological delivery.
type CommitRecord struct {
	Hash        string       `json:"hash"`
	AuthorName  string       `json:"author_name"`
	AuthorEmail string       `json:"author_email"`
	Timestamp   time.Time    `json:"timestamp"`
	Subject     string       `json:"subject"`
	Files       []FileChange `json:"files,omitempty"`
}

// LinesAdded sums additions across the commit's file changes.
func (c *CommitRecord) LinesAdded() int {
	total := 0
	for _, f := range c.Files {
		total += f.Additions
	}
	return total
}

// LinesRemoved sums deletions across the commit's file changes.
func (c *CommitRecord) LinesRemoved() int {
	total := 0
	for _, f := range c.Files {
		total += f.Deletions
	}
	return total
}

// BranchInfo describes a local branch of the repository.
type BranchInfo struct {
	Name        string    `json:"name"`
	IsDefault   bool      `json:"is_default"`
	CommitCount int       `json:"commit_count"`
	LastCommit  time.Time `json:"last_commit"`
}
