// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleProgress prints one line per completed item. It satisfies
// worker.Progress and is safe for the processor's completion stream.
type ConsoleProgress struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleProgress(out io.Writer) *ConsoleProgress {
	return &ConsoleProgress{out: out}
}

func (p *ConsoleProgress) Step(label string, completed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s %s\n", dimStyle.Render(fmt.Sprintf("[%d/%d]", completed, total)), label)
}
