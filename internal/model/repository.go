// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"strings"
	"time"
)

// Repository is one entry from the GitHub list-repositories response.
// Immutable once constructed.
type Repository struct {
	Name          string     `json:"name"`
	FullName      string     `json:"full_name"`
	CloneURL      string     `json:"clone_url"`
	SSHURL        string     `json:"ssh_url"`
	DefaultBranch string     `json:"default_branch"`
	Private       bool       `json:"private"`
	Archived      bool       `json:"archived"`
	Fork          bool       `json:"fork"`
	PushedAt      *time.Time `json:"pushed_at"`
}

// CloneURLFor returns the HTTPS or SSH clone URL depending on preference.
func (r Repository) CloneURLFor(useHTTPS bool) string {
	if useHTTPS {
		return r.CloneURL
	}
	return r.SSHURL
}

// Validate reports whether the record is usable. The name doubles as the
// local directory name, so it must be a single path segment.
func (r Repository) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("repository has no name")
	}
	if strings.ContainsAny(r.Name, `/\`) {
		return fmt.Errorf("repository name %q contains a path separator", r.Name)
	}
	if r.FullName == "" {
		return fmt.Errorf("repository %s has no full_name", r.Name)
	}
	if r.CloneURL == "" || r.SSHURL == "" {
		return fmt.Errorf("repository %s has no clone URL", r.Name)
	}
	return nil
}
