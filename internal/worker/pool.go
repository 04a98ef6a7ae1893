// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

// Package worker is the fan-out/fan-in core: it runs a per-item function
// over a list of items on a bounded pool and collects exactly one result
// per item, even when the function panics.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ulysses-bp/setup-repo/internal/config"
	"github.com/ulysses-bp/setup-repo/internal/model"
)

// Func processes one item and returns its result.
type Func func(ctx context.Context, item string) model.ProcessResult

// Processor executes work items concurrently with a bounded worker count.
type Processor struct {
	maxWorkers int
	progress   Progress
	log        zerolog.Logger
}

// NewProcessor builds a Processor. maxWorkers is bounded to
// [config.MinWorkers, config.MaxWorkers] regardless of what the caller
// passes.
func NewProcessor(maxWorkers int, progress Progress, log zerolog.Logger) *Processor {
	maxWorkers = config.ClampWorkers(maxWorkers)
	if progress == nil {
		progress = DiscardProgress{}
	}
	return &Processor{maxWorkers: maxWorkers, progress: progress, log: log}
}

// Process runs fn once per item, at most maxWorkers at a time, and
// returns a summary over all results. Results appear in completion order.
// Every submitted item is accounted for exactly once: a panic inside fn
// is converted into a failed result and never aborts the batch or its
// siblings.
func (p *Processor) Process(ctx context.Context, items []string, fn Func, desc string) model.SyncSummary {
	start := time.Now()

	sem := make(chan struct{}, p.maxWorkers)
	out := make(chan model.ProcessResult, len(items))

	for _, item := range items {
		sem <- struct{}{}
		go func(item string) {
			defer func() { <-sem }()
			out <- p.safeProcess(ctx, item, fn)
		}(item)
	}

	// Drain on the submitting goroutine; the out channel is the single
	// synchronization point for result aggregation.
	results := make([]model.ProcessResult, 0, len(items))
	for range items {
		res := <-out
		results = append(results, res)
		p.progress.Step(desc+": "+res.RepoName, len(results), len(items))
	}

	return model.Summarize(results, time.Since(start))
}

// safeProcess wraps one fn call with timing and a panic boundary. One bad
// item must not sink the rest of the batch.
func (p *Processor) safeProcess(ctx context.Context, item string, fn Func) (res model.ProcessResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Str("item", item).Any("panic", r).Msg("process_failed")
			res = model.Failed(itemName(item), fmt.Sprintf("panic: %v", r))
		}
		res.Duration = time.Since(start)
		if res.RepoName == "" {
			res.RepoName = itemName(item)
		}
	}()
	return fn(ctx, item)
}
