// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	results := []ProcessResult{
		Success("a", "cloned"),
		Success("b", "pulled"),
		Failed("c", "merge conflict"),
		Skipped("d", "not found in remote repository list"),
	}

	s := Summarize(results, 3*time.Second)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Success)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, s.Total, s.Success+s.Failed+s.Skipped)
	assert.Equal(t, 3*time.Second, s.Duration)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 0)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.Results)
}

func TestFailedResults(t *testing.T) {
	s := Summarize([]ProcessResult{
		Success("a", "ok"),
		Failed("b", "boom"),
		Failed("c", "bang"),
	}, time.Second)

	failed := s.FailedResults()
	assert.Len(t, failed, 2)
	assert.Equal(t, "b", failed[0].RepoName)
	assert.Equal(t, "boom", failed[0].Err)
}

func TestRepositoryCloneURLFor(t *testing.T) {
	repo := Repository{
		CloneURL: "https://github.com/acme/widget.git",
		SSHURL:   "git@github.com:acme/widget.git",
	}
	assert.Equal(t, repo.CloneURL, repo.CloneURLFor(true))
	assert.Equal(t, repo.SSHURL, repo.CloneURLFor(false))
}

func TestRepositoryValidate(t *testing.T) {
	valid := Repository{
		Name:     "widget",
		FullName: "acme/widget",
		CloneURL: "https://github.com/acme/widget.git",
		SSHURL:   "git@github.com:acme/widget.git",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Repository)
	}{
		{"missing name", func(r *Repository) { r.Name = "" }},
		{"path separator in name", func(r *Repository) { r.Name = "../evil" }},
		{"backslash in name", func(r *Repository) { r.Name = `a\b` }},
		{"missing full name", func(r *Repository) { r.FullName = "" }},
		{"missing clone url", func(r *Repository) { r.CloneURL = "" }},
		{"missing ssh url", func(r *Repository) { r.SSHURL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := valid
			tt.mutate(&repo)
			assert.Error(t, repo.Validate())
		})
	}
}
