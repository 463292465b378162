// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"slices"
	"strings"
)

// FullLabel returns the label of r prefixed by the labels of its batches.
func FullLabel(r Runnable) string {
	if r == nil {
		return "Unknown"
	}

	labels := []string{r.GetLabel()}
	for p := r.GetParent(); p != nil; p = p.GetParent() {
		labels = append(labels, p.GetLabel())
	}

	slices.Reverse(labels)

	return strings.Join(labels, " > ")
}
