// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

package model

import "time"

// Status is the terminal state of processing one repository.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// ProcessResult is the outcome of processing exactly one repository.
// The processor produces exactly one per submitted item.
type ProcessResult struct {
	RepoName  string
	Status    Status
	Duration  time.Duration
	Message   string
	Err       string // set iff Status == StatusFailed
	Timestamp time.Time
}

// Success returns a StatusSuccess result for repo with the given message.
func Success(repo, message string) ProcessResult {
	return ProcessResult{
		RepoName:  repo,
		Status:    StatusSuccess,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Failed returns a StatusFailed result carrying the error text.
func Failed(repo, errText string) ProcessResult {
	return ProcessResult{
		RepoName:  repo,
		Status:    StatusFailed,
		Err:       errText,
		Timestamp: time.Now(),
	}
}

// Skipped returns a StatusSkipped result with a reason.
func Skipped(repo, reason string) ProcessResult {
	return ProcessResult{
		RepoName:  repo,
		Status:    StatusSkipped,
		Message:   reason,
		Timestamp: time.Now(),
	}
}

// SyncSummary aggregates the results of one sync run.
// Results are in completion order, not submission order.
type SyncSummary struct {
	Total    int
	Success  int
	Failed   int
	Skipped  int
	Duration time.Duration
	Results  []ProcessResult
}

// Summarize builds a SyncSummary from accumulated results.
func Summarize(results []ProcessResult, duration time.Duration) SyncSummary {
	s := SyncSummary{
		Total:    len(results),
		Duration: duration,
		Results:  results,
	}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			s.Success++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// FailedResults returns only the failed entries, for error reporting.
func (s SyncSummary) FailedResults() []ProcessResult {
	var failed []ProcessResult
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}
