// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the per-invocation settings snapshot. Values come
// from SETUP_REPO_* environment variables, an optional .env file, and
// auto-detection fallbacks (git config, gh auth token). The snapshot is
// read-only for the rest of the run.
package config

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SETUP_REPO_"

const (
	DefaultMaxWorkers = 10
	MinWorkers        = 1
	MaxWorkers        = 32
)

// Settings is the configuration snapshot for one invocation.
type Settings struct {
	Owner          string
	Token          string
	UseHTTPS       bool
	WorkspaceDir   string
	MaxWorkers     int
	AutoPrune      bool
	AutoStash      bool
	GitSSLNoVerify bool
	LogLevel       string
	LogFile        string

	// APIBaseURL overrides the GitHub API endpoint. Used for GitHub
	// Enterprise hosts and in tests.
	APIBaseURL string
}

// Load builds the settings snapshot. A .env file in the working directory
// is applied first (without overriding the real environment), then
// SETUP_REPO_* variables, then auto-detection for owner and token.
func Load() Settings {
	// Missing .env is the common case and not an error.
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()

	s := Settings{
		Owner:          getenv("GITHUB_OWNER", ""),
		Token:          getenv("GITHUB_TOKEN", ""),
		UseHTTPS:       getenvBool("USE_HTTPS", false),
		WorkspaceDir:   getenv("WORKSPACE_DIR", filepath.Join(home, "workspace")),
		MaxWorkers:     getenvInt("MAX_WORKERS", DefaultMaxWorkers),
		AutoPrune:      getenvBool("AUTO_PRUNE", true),
		AutoStash:      getenvBool("AUTO_STASH", false),
		GitSSLNoVerify: getenvBool("GIT_SSL_NO_VERIFY", false),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFile:        getenv("LOG_FILE", ""),
		APIBaseURL:     getenv("API_URL", ""),
	}

	if s.Owner == "" {
		s.Owner = detectOwner()
	}
	if s.Token == "" {
		s.Token = detectToken()
	}
	s.MaxWorkers = ClampWorkers(s.MaxWorkers)

	return s
}

// ClampWorkers bounds a worker count to [MinWorkers, MaxWorkers]. Callers
// that override MaxWorkers after Load (e.g. from a flag) must apply it too.
func ClampWorkers(n int) int {
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// detectOwner falls back to GITHUB_USER, then the global git user name.
func detectOwner() string {
	if owner := os.Getenv("GITHUB_USER"); owner != "" {
		return owner
	}
	return commandOutput("git", "config", "user.name")
}

// detectToken falls back to GITHUB_TOKEN, then the gh CLI's stored token.
func detectToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return commandOutput("gh", "auth", "token")
}

func commandOutput(name string, args ...string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
