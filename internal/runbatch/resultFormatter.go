// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/sysvault/internal/color"
)

// WriteResults writes a tree of step outcomes, one line per step, with the
// error and last output line of failed steps below them.
func WriteResults(w io.Writer, results Results) error {
	for _, r := range results {
		if err := writeResultWithIndent(w, r, ""); err != nil {
			return err
		}
	}

	return nil
}

func writeResultWithIndent(w io.Writer, r *Result, indent string) error {
	var statusStr string

	labelColor := []color.Code{color.Bold}

	switch r.Status {
	case ResultStatusSkipped:
		statusStr = color.Colorize("~", color.FgYellow)
		labelColor = append(labelColor, color.FgYellow)
	case ResultStatusError:
		statusStr = color.Colorize("✗", color.FgRed)
		labelColor = append(labelColor, color.FgRed)
	case ResultStatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)
		labelColor = append(labelColor, color.FgGreen)
	default:
		statusStr = color.Colorize("?", color.FgWhite)
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	line := fmt.Sprintf("%s%s %s", indent, statusStr, color.Colorize(label, labelColor...))
	if r.ExitCode > 0 {
		line += fmt.Sprintf(" (exit code: %d)", r.ExitCode)
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	if r.Status == ResultStatusError && r.Error != nil && !errors.Is(r.Error, ErrResultChildrenHasError) {
		if _, err := fmt.Fprintf(w, "%s  %s %s\n", indent, color.Colorize("➜ Error:", color.FgRed), r.Error); err != nil {
			return err
		}

		if r.LastLine != "" {
			if _, err := fmt.Fprintf(w, "%s  %s %s\n", indent, color.Colorize("➜ Output:", color.FgHiRed), r.LastLine); err != nil {
				return err
			}
		}
	}

	for _, child := range r.Children {
		if err := writeResultWithIndent(w, child, indent+"  "); err != nil {
			return err
		}
	}

	return nil
}
