// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/sysvault/internal/borg"
)

var (
	// ErrPickerAborted is returned when the picker is closed without a selection.
	ErrPickerAborted = errors.New("archive selection aborted")
	// ErrNoArchives is returned when there is nothing to pick from.
	ErrNoArchives = errors.New("no archives to pick from")
	// ErrUnexpectedModel is returned if the program ends with a foreign model.
	ErrUnexpectedModel = errors.New("unexpected model returned by picker")
)

// Picker runs the archive picker on a terminal.
type Picker struct {
	In  io.Reader
	Out io.Writer
}

// Pick shows archives and returns the chosen name.
func (p Picker) Pick(ctx context.Context, archives []borg.Archive) (string, error) {
	if len(archives) == 0 {
		return "", ErrNoArchives
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}

	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	final, err := tea.NewProgram(NewModel(archives), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.Join(ErrPickerAborted, ctx.Err())
		}

		return "", err
	}

	m, ok := final.(Model)
	if !ok {
		return "", ErrUnexpectedModel
	}

	if m.Aborted() || m.Choice() == "" {
		return "", ErrPickerAborted
	}

	return m.Choice(), nil
}
