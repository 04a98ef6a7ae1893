// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

package worker

import "path/filepath"

// Progress receives a notification after each item completes. Rendering
// is the implementation's concern; correctness never depends on it.
type Progress interface {
	Step(label string, completed, total int)
}

// DiscardProgress ignores all notifications.
type DiscardProgress struct{}

func (DiscardProgress) Step(string, int, int) {}

// itemName reduces a work item (a filesystem path) to its display name.
func itemName(item string) string {
	return filepath.Base(item)
}
