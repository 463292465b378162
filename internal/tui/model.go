// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/sysvault/internal/borg"
)

const (
	maxPickerHeight = 10
	indexWidth      = 4
	nameWidth       = 40
	timeWidth       = 28
	headerHeight    = 2
)

// Styles contains all the styling for the picker and the archive table.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Selected lipgloss.Style
	Cell     lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles creates the default styling.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("7")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("8")).
			BorderBottom(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("11")).
			Bold(true),
		Cell: lipgloss.NewStyle().
			PaddingRight(1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
	}
}

// Model is the bubbletea model of the archive picker.
type Model struct {
	table    table.Model
	styles   *Styles
	choice   string
	aborted  bool
	quitting bool
}

// NewModel returns a picker over archives with the newest, last, one selected.
func NewModel(archives []borg.Archive) Model {
	styles := NewStyles()

	rows := make([]table.Row, 0, len(archives))
	for i, a := range archives {
		rows = append(rows, table.Row{strconv.Itoa(i + 1), a.Name, a.Time})
	}

	ts := table.DefaultStyles()
	ts.Header = styles.Header
	ts.Selected = styles.Selected

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: indexWidth},
			{Title: "Archive", Width: nameWidth},
			{Title: "Time", Width: timeWidth},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), maxPickerHeight)+headerHeight),
		table.WithStyles(ts),
	)
	t.SetCursor(len(rows) - 1)

	return Model{
		table:  t,
		styles: styles,
	}
}

// Choice is the selected archive name, empty until Enter is pressed.
func (m Model) Choice() string {
	return m.choice
}

// Aborted reports whether the picker was left without a choice.
func (m Model) Aborted() bool {
	return m.aborted
}

// Cursor is the index of the highlighted archive.
func (m Model) Cursor() int {
	return m.table.Cursor()
}

// Init implements bubbletea.Model.Init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements bubbletea.Model.Update.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if row := m.table.SelectedRow(); row != nil {
				m.choice = row[1]
				m.quitting = true

				return m, tea.Quit
			}
		case "q", "esc", "ctrl+c":
			m.aborted = true
			m.quitting = true

			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// View implements bubbletea.Model.View.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("📋 Select an archive to restore"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("↑/↓ or j/k to move, Enter to select, 'q' to cancel"))
	b.WriteString("\n")

	return b.String()
}
