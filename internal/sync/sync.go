// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

// Package sync composes the GitHub client, the git client, and the worker
// pool into the sync command: enumerate an owner's repositories, decide
// clone vs. pull per repository, run the work concurrently, and report a
// summary.
package sync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ulysses-bp/setup-repo/internal/config"
	"github.com/ulysses-bp/setup-repo/internal/model"
	"github.com/ulysses-bp/setup-repo/internal/worker"
)

// Lister enumerates an owner's repositories.
type Lister interface {
	Repositories(ctx context.Context, owner string) ([]model.Repository, error)
}

// Git is the subset of git operations the orchestrator needs.
type Git interface {
	Clone(ctx context.Context, url, dest, branch string) model.ProcessResult
	Pull(ctx context.Context, repoPath string) model.ProcessResult
}

// Runner executes the per-item work with bounded parallelism.
type Runner interface {
	Process(ctx context.Context, items []string, fn worker.Func, desc string) model.SyncSummary
}

// Orchestrator drives one sync invocation.
type Orchestrator struct {
	Settings  config.Settings
	GitHub    Lister
	Git       Git
	Processor Runner
	Log       zerolog.Logger
	Out       io.Writer
}

// Sync enumerates owner's repositories and brings the workspace into
// sync. A repository-list failure aborts before any filesystem change.
// The returned summary has Failed > 0 when at least one item failed; the
// caller maps that to the exit code.
func (o *Orchestrator) Sync(ctx context.Context, owner string, dryRun bool) (model.SyncSummary, error) {
	if owner == "" {
		owner = o.Settings.Owner
	}
	if owner == "" {
		return model.SyncSummary{}, fmt.Errorf("no GitHub owner configured: pass --owner, set SETUP_REPO_GITHUB_OWNER, or set git config user.name")
	}

	repos, err := o.GitHub.Repositories(ctx, owner)
	if err != nil {
		return model.SyncSummary{}, fmt.Errorf("fetch repository list: %w", err)
	}
	if len(repos) == 0 {
		fmt.Fprintf(o.Out, "No repositories found for %s.\n", owner)
		return model.SyncSummary{}, nil
	}

	connection := "SSH"
	if o.Settings.UseHTTPS {
		connection = "HTTPS"
	}
	fmt.Fprintf(o.Out, "Found %d repositories for %s (cloning via %s).\n", len(repos), owner, connection)

	byName := make(map[string]model.Repository, len(repos))
	for _, repo := range repos {
		byName[repo.Name] = repo
	}

	items := o.workItems(repos)

	if dryRun {
		o.printPlan(items, byName)
		return model.SyncSummary{}, nil
	}

	if err := os.MkdirAll(o.Settings.WorkspaceDir, 0o755); err != nil {
		return model.SyncSummary{}, fmt.Errorf("create workspace dir: %w", err)
	}

	summary := o.Processor.Process(ctx, items, func(ctx context.Context, path string) model.ProcessResult {
		return o.processOne(ctx, path, byName)
	}, "Syncing")

	o.Log.Info().
		Int("total", summary.Total).
		Int("success", summary.Success).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Dur("duration", summary.Duration).
		Msg("sync_completed")

	return summary, nil
}

// workItems builds the target path list: one per fetched repository, plus
// any existing local git directories the owner no longer lists, so that
// stale checkouts surface as skips instead of vanishing silently.
func (o *Orchestrator) workItems(repos []model.Repository) []string {
	seen := make(map[string]bool, len(repos))
	items := make([]string, 0, len(repos))
	for _, repo := range repos {
		seen[repo.Name] = true
		items = append(items, filepath.Join(o.Settings.WorkspaceDir, repo.Name))
	}

	entries, err := os.ReadDir(o.Settings.WorkspaceDir)
	if err != nil {
		return items
	}
	var extra []string
	for _, entry := range entries {
		if !entry.IsDir() || seen[entry.Name()] {
			continue
		}
		path := filepath.Join(o.Settings.WorkspaceDir, entry.Name())
		if info, err := os.Stat(filepath.Join(path, ".git")); err == nil && info.IsDir() {
			extra = append(extra, path)
		}
	}
	sort.Strings(extra)
	return append(items, extra...)
}

// processOne is the per-item worker: pull when the path already exists,
// clone when it does not, skip when a local directory has no matching
// remote record.
func (o *Orchestrator) processOne(ctx context.Context, path string, byName map[string]model.Repository) model.ProcessResult {
	name := filepath.Base(path)
	repo, listed := byName[name]

	if _, err := os.Stat(path); err == nil {
		if !listed {
			return model.Skipped(name, "not found in remote repository list")
		}
		return o.Git.Pull(ctx, path)
	}

	if !listed {
		return model.Skipped(name, "not found in remote repository list")
	}
	return o.Git.Clone(ctx, repo.CloneURLFor(o.Settings.UseHTTPS), path, repo.DefaultBranch)
}

// printPlan writes the dry-run preview. No git subprocess runs and no
// filesystem write happens here.
func (o *Orchestrator) printPlan(items []string, byName map[string]model.Repository) {
	fmt.Fprintln(o.Out, "Dry run - planned actions:")
	for _, path := range items {
		name := filepath.Base(path)
		repo, listed := byName[name]
		switch {
		case !listed:
			fmt.Fprintf(o.Out, "  skip  %s (not found in remote repository list)\n", name)
		case exists(path):
			fmt.Fprintf(o.Out, "  pull  %s\n", name)
		default:
			fmt.Fprintf(o.Out, "  clone %s -> %s\n", repo.CloneURLFor(o.Settings.UseHTTPS), path)
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
