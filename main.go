// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

// setup-repo clones and pulls a GitHub owner's repositories in parallel
// and prunes merged local branches.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ulysses-bp/setup-repo/internal/cleanup"
	"github.com/ulysses-bp/setup-repo/internal/config"
	"github.com/ulysses-bp/setup-repo/internal/github"
	"github.com/ulysses-bp/setup-repo/internal/gitx"
	"github.com/ulysses-bp/setup-repo/internal/sync"
	"github.com/ulysses-bp/setup-repo/internal/ui"
	"github.com/ulysses-bp/setup-repo/internal/worker"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	quiet   bool
	logFile string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:          "setup-repo",
		Short:        "Sync a GitHub owner's repositories into a local workspace",
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress progress and log output")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "append JSON log events to this file")

	root.AddCommand(newSyncCmd(&flags), newCleanupCmd(&flags), newInitCmd())
	return root
}

func newSyncCmd(flags *rootFlags) *cobra.Command {
	var (
		owner     string
		dest      string
		jobs      int
		noPrune   bool
		autoStash bool
		useHTTPS  bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Clone missing repositories and pull existing ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.Load()
			if dest != "" {
				settings.WorkspaceDir = dest
			}
			if cmd.Flags().Changed("jobs") {
				settings.MaxWorkers = config.ClampWorkers(jobs)
			}
			if noPrune {
				settings.AutoPrune = false
			}
			if autoStash {
				settings.AutoStash = true
			}
			if useHTTPS {
				settings.UseHTTPS = true
			}

			logger := newLogger(settings, flags)

			var progress worker.Progress = ui.NewConsoleProgress(cmd.OutOrStdout())
			if flags.quiet {
				progress = worker.DiscardProgress{}
			}

			orch := &sync.Orchestrator{
				Settings: settings,
				GitHub: github.New(github.Options{
					BaseURL:    settings.APIBaseURL,
					Token:      settings.Token,
					SkipVerify: settings.GitSSLNoVerify,
				}, logger),
				Git: gitx.New(gitx.Options{
					AutoPrune:   settings.AutoPrune,
					AutoStash:   settings.AutoStash,
					SSLNoVerify: settings.GitSSLNoVerify,
				}, logger),
				Processor: worker.NewProcessor(settings.MaxWorkers, progress, logger),
				Log:       logger,
				Out:       outWriter(cmd, flags),
			}

			summary, err := orch.Sync(cmd.Context(), owner, dryRun)
			if err != nil {
				return err
			}
			if summary.Total > 0 {
				ui.RenderSummary(outWriter(cmd, flags), summary)
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d repositories failed", summary.Failed, summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "GitHub user or organization (default: auto-detected)")
	cmd.Flags().StringVar(&dest, "dest", "", "workspace directory (default: ~/workspace)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", config.DefaultMaxWorkers, "number of parallel workers")
	cmd.Flags().BoolVar(&noPrune, "no-prune", false, "skip fetch --prune before pulling")
	cmd.Flags().BoolVar(&autoStash, "auto-stash", false, "stash local changes before pull and pop after")
	cmd.Flags().BoolVar(&useHTTPS, "https", false, "clone via HTTPS instead of SSH")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show planned actions without touching disk")

	return cmd
}

func newCleanupCmd(flags *rootFlags) *cobra.Command {
	var (
		base   string
		dryRun bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "cleanup [PATH]",
		Short: "Delete local branches already merged into the base branch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoPath := "."
			if len(args) > 0 {
				repoPath = args[0]
			}

			settings := config.Load()
			logger := newLogger(settings, flags)

			cleaner := &cleanup.Cleaner{
				Git: gitx.New(gitx.Options{
					SSLNoVerify: settings.GitSSLNoVerify,
				}, logger),
				Log: logger,
				Out: outWriter(cmd, flags),
			}
			return cleaner.Run(cmd.Context(), repoPath, base, dryRun, force)
		},
	}

	cmd.Flags().StringVar(&base, "base", "main", "base branch merged branches are compared against")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "list branches without deleting them")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "force-delete branches (git branch -D)")

	return cmd
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactively write a .env configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.RunInitWizard(config.Load(), ".env")
		},
	}
}

func newLogger(settings config.Settings, flags *rootFlags) zerolog.Logger {
	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	if !flags.quiet {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	logFile := flags.logFile
	if logFile == "" {
		logFile = settings.LogFile
	}
	if logFile != "" {
		if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			writers = append(writers, f)
		}
	}

	if len(writers) == 0 {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
}

func outWriter(cmd *cobra.Command, flags *rootFlags) io.Writer {
	if flags.quiet {
		return io.Discard
	}
	return cmd.OutOrStdout()
}
