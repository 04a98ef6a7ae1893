// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

// Package cleanup lists and deletes local branches that are already
// merged into a base branch.
package cleanup

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ulysses-bp/setup-repo/internal/gitx"
)

// Cleaner prunes merged local branches from one repository.
type Cleaner struct {
	Git *gitx.Client
	Log zerolog.Logger
	Out io.Writer
}

// Run deletes branches merged into base. With dryRun it only lists them.
// force uses git branch -D. Returns an error when any deletion fails; an
// empty merged list is a successful no-op.
func (c *Cleaner) Run(ctx context.Context, repoPath, base string, dryRun, force bool) error {
	if !c.Git.IsGitRepo(repoPath) {
		return fmt.Errorf("not a git repository: %s", repoPath)
	}
	if base == "" {
		base = "main"
	}

	branches, err := c.Git.MergedBranches(ctx, repoPath, base)
	if err != nil {
		return fmt.Errorf("list merged branches: %w", err)
	}
	if len(branches) == 0 {
		fmt.Fprintf(c.Out, "No branches merged into %s.\n", base)
		return nil
	}

	if dryRun {
		fmt.Fprintf(c.Out, "Dry run - branches merged into %s:\n", base)
		for _, branch := range branches {
			fmt.Fprintf(c.Out, "  would delete %s\n", branch)
		}
		return nil
	}

	var failed int
	for _, branch := range branches {
		if err := c.Git.DeleteBranch(ctx, repoPath, branch, force); err != nil {
			c.Log.Error().Str("branch", branch).Str("error", err.Error()).Msg("branch_delete_failed")
			fmt.Fprintf(c.Out, "  failed  %s: %v\n", branch, err)
			failed++
			continue
		}
		fmt.Fprintf(c.Out, "  deleted %s\n", branch)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d branch deletions failed", failed, len(branches))
	}
	fmt.Fprintf(c.Out, "Deleted %d branches.\n", len(branches))
	return nil
}
