// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/matt-FFFFFF/sysvault/internal/borg"
)

// ArchiveTable renders archives as numbered rows of name and time, without
// borders. Numbers are the ones the restore prompt accepts.
func ArchiveTable(archives []borg.Archive) string {
	cell := lipgloss.NewStyle().PaddingRight(1)
	name := cell.Width(nameWidth + 1)

	rows := make([][]string, 0, len(archives))
	for i, a := range archives {
		rows = append(rows, []string{strconv.Itoa(i+1) + ".", a.Name, a.Time})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 1 {
				return name
			}

			return cell
		}).
		Rows(rows...)

	return t.String()
}
