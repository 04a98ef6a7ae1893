// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

// Package ui renders summaries and progress to the terminal and hosts the
// interactive init wizard.
package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ulysses-bp/setup-repo/internal/model"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
	boldStyle = lipgloss.NewStyle().Bold(true)
)

// RenderSummary writes the end-of-run report: per-status counts, the full
// failure list with git stderr, and the wall-clock duration.
func RenderSummary(w io.Writer, s model.SyncSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, boldStyle.Render("Sync summary"))
	fmt.Fprintf(w, "  %s %d succeeded\n", okStyle.Render("✓"), s.Success)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  %s %d skipped\n", warnStyle.Render("-"), s.Skipped)
		for _, r := range s.Results {
			if r.Status == model.StatusSkipped {
				fmt.Fprintf(w, "      %s %s\n", r.RepoName, dimStyle.Render("("+r.Message+")"))
			}
		}
	}
	if s.Failed > 0 {
		fmt.Fprintf(w, "  %s %d failed\n", errStyle.Render("✗"), s.Failed)
		for _, r := range s.FailedResults() {
			fmt.Fprintf(w, "      %s: %s\n", r.RepoName, firstLine(r.Err))
		}
	}
	fmt.Fprintf(w, "  %s\n", dimStyle.Render(fmt.Sprintf("%d repositories in %s", s.Total, s.Duration.Round(10*time.Millisecond))))
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
