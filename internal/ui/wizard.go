// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/ulysses-bp/setup-repo/internal/config"
)

// RunInitWizard prompts for the core settings and writes them to a .env
// file in the working directory. Existing values are offered as defaults.
func RunInitWizard(s config.Settings, envPath string) error {
	owner := s.Owner
	token := s.Token
	workspace := s.WorkspaceDir
	workers := strconv.Itoa(s.MaxWorkers)
	useHTTPS := s.UseHTTPS
	autoStash := s.AutoStash

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub owner").
				Description("User or organization whose repositories to sync").
				Value(&owner).
				Validate(func(v string) error {
					if v == "" {
						return fmt.Errorf("owner is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("GitHub token").
				Description("Optional; required for private repositories").
				EchoMode(huh.EchoModePassword).
				Value(&token),
			huh.NewInput().
				Title("Workspace directory").
				Value(&workspace),
			huh.NewInput().
				Title("Parallel workers").
				Description(fmt.Sprintf("%d-%d", config.MinWorkers, config.MaxWorkers)).
				Value(&workers).
				Validate(func(v string) error {
					n, err := strconv.Atoi(v)
					if err != nil || n < config.MinWorkers || n > config.MaxWorkers {
						return fmt.Errorf("enter a number between %d and %d", config.MinWorkers, config.MaxWorkers)
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Clone via HTTPS instead of SSH?").
				Value(&useHTTPS),
			huh.NewConfirm().
				Title("Auto-stash local changes before pull?").
				Value(&autoStash),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	env := fmt.Sprintf(
		"SETUP_REPO_GITHUB_OWNER=%s\n"+
			"SETUP_REPO_GITHUB_TOKEN=%s\n"+
			"SETUP_REPO_WORKSPACE_DIR=%s\n"+
			"SETUP_REPO_MAX_WORKERS=%s\n"+
			"SETUP_REPO_USE_HTTPS=%t\n"+
			"SETUP_REPO_AUTO_STASH=%t\n",
		owner, token, workspace, workers, useHTTPS, autoStash,
	)

	if err := os.WriteFile(envPath, []byte(env), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", envPath, err)
	}
	fmt.Printf("Wrote %s\n", envPath)
	return nil
}
