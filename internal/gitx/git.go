// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

// Package gitx runs the git subprocess operations needed to bring a local
// working copy into sync with its remote. Every invocation passes an
// explicit working directory and captures stdout/stderr; a nonzero exit
// becomes an error value, never a panic. Safe for concurrent use across
// different repositories.
package gitx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ulysses-bp/setup-repo/internal/model"
)

// DefaultTimeout bounds a single git subprocess.
const DefaultTimeout = 5 * time.Minute

// Client executes git commands. The zero value is not usable; use New.
type Client struct {
	autoPrune   bool
	autoStash   bool
	sslNoVerify bool
	timeout     time.Duration
	log         zerolog.Logger
}

// Options configure a Client.
type Options struct {
	AutoPrune   bool
	AutoStash   bool
	SSLNoVerify bool
	Timeout     time.Duration
}

func New(opts Options, log zerolog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		autoPrune:   opts.AutoPrune,
		autoStash:   opts.AutoStash,
		sslNoVerify: opts.SSLNoVerify,
		timeout:     opts.Timeout,
		log:         log,
	}
}

// Clone performs a shallow depth-1 clone of url into dest. dest must not
// already exist. If branch is non-empty, that branch is cloned.
func (c *Client) Clone(ctx context.Context, url, dest, branch string) model.ProcessResult {
	name := filepath.Base(dest)

	args := []string{"clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	// Run in the parent directory so the command never inherits the
	// process working directory.
	args = append(args, url, name)

	if _, err := c.run(ctx, filepath.Dir(dest), args...); err != nil {
		c.log.Error().Str("url", url).Str("error", err.Error()).Msg("clone_failed")
		return model.Failed(name, err.Error())
	}
	c.log.Info().Str("url", url).Str("dest", dest).Msg("cloned")
	return model.Success(name, "cloned")
}

// Pull brings an existing working copy up to date: fetch --prune
// (advisory), optional stash when the tree is dirty, pull --ff-only,
// then a best-effort stash pop. A pull that would need a merge commit
// fails rather than merging.
func (c *Client) Pull(ctx context.Context, repoPath string) model.ProcessResult {
	name := filepath.Base(repoPath)

	c.FetchAndPrune(ctx, repoPath)

	stashed := false
	if c.autoStash && c.HasChanges(ctx, repoPath) {
		if _, err := c.run(ctx, repoPath, "stash"); err != nil {
			c.log.Debug().Str("repo", name).Str("error", err.Error()).Msg("stash_failed")
		} else {
			stashed = true
		}
	}

	_, pullErr := c.run(ctx, repoPath, "pull", "--ff-only")

	if stashed {
		// Restore local changes even when the pull failed; a pop failure
		// is advisory and does not change the pull's outcome.
		if _, err := c.run(ctx, repoPath, "stash", "pop"); err != nil {
			c.log.Warn().Str("repo", name).Str("error", err.Error()).Msg("stash_pop_failed")
		}
	}

	if pullErr != nil {
		c.log.Error().Str("repo", name).Str("error", pullErr.Error()).Msg("pull_failed")
		return model.Failed(name, pullErr.Error())
	}
	c.log.Info().Str("repo", name).Msg("pulled")
	return model.Success(name, "pulled")
}

// FetchAndPrune runs fetch --prune. It is a no-op returning true when
// auto-prune is off, and returns false (without failing the caller) when
// the fetch fails.
func (c *Client) FetchAndPrune(ctx context.Context, repoPath string) bool {
	if !c.autoPrune {
		return true
	}
	if _, err := c.run(ctx, repoPath, "fetch", "--prune"); err != nil {
		c.log.Warn().Str("repo", filepath.Base(repoPath)).Str("error", err.Error()).Msg("fetch_prune_failed")
		return false
	}
	return true
}

// HasChanges reports whether the working tree has uncommitted changes.
func (c *Client) HasChanges(ctx context.Context, repoPath string) bool {
	out, err := c.run(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}

// IsGitRepo reports whether path contains a .git directory.
func (c *Client) IsGitRepo(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil && info.IsDir()
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	out, err := c.run(ctx, repoPath, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// MergedBranches lists local branches already merged into base, excluding
// base itself and the currently checked-out branch.
func (c *Client) MergedBranches(ctx context.Context, repoPath, base string) ([]string, error) {
	out, err := c.run(ctx, repoPath, "branch", "--merged", base)
	if err != nil {
		return nil, err
	}

	current, _ := c.CurrentBranch(ctx, repoPath)

	var branches []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if name == "" || name == base || name == current {
			continue
		}
		branches = append(branches, name)
	}
	return branches, nil
}

// DeleteBranch removes a local branch. force uses -D, otherwise -d.
func (c *Client) DeleteBranch(ctx context.Context, repoPath, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := c.run(ctx, repoPath, "branch", flag, branch); err != nil {
		return err
	}
	c.log.Info().Str("repo", filepath.Base(repoPath)).Str("branch", branch).Msg("branch_deleted")
	return nil
}

func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	if c.sslNoVerify {
		cmd.Env = append(os.Environ(), "GIT_SSL_NO_VERIFY=1")
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debug().Str("cmd", "git "+strings.Join(args, " ")).Str("dir", dir).Msg("git_command")

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("git %s: timed out after %s", args[0], c.timeout)
		}
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
