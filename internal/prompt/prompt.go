// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package prompt reads answers from the operator: archive choices,
// confirmations and the repository passphrase.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

var (
	// ErrAborted is returned when the operator aborts a prompt with Ctrl+C or end of input.
	ErrAborted = errors.New("prompt aborted")
	// ErrNoArchives is returned when there is nothing to choose from.
	ErrNoArchives = errors.New("no archives")
	// ErrInvalidChoice is returned when input matches no archive.
	ErrInvalidChoice = errors.New("invalid choice")
)

// Prompter asks the operator for a line of input.
type Prompter interface {
	Line(prompt string) (string, error)
	Password(prompt string) (string, error)
}

var _ Prompter = (*LinerPrompter)(nil)

// LinerPrompter reads from the terminal with line editing.
// Each prompt opens its own liner session so the terminal is left in cooked
// mode between prompts, while child processes run.
type LinerPrompter struct{}

// Line implements Prompter.
func (LinerPrompter) Line(prompt string) (string, error) {
	return withLiner(func(l *liner.State) (string, error) {
		return l.Prompt(prompt)
	})
}

// Password implements Prompter. Input is not echoed.
func (LinerPrompter) Password(prompt string) (string, error) {
	return withLiner(func(l *liner.State) (string, error) {
		return l.PasswordPrompt(prompt)
	})
}

func withLiner(f func(*liner.State) (string, error)) (string, error) {
	l := liner.NewLiner()
	defer func() {
		_ = l.Close()
	}()

	l.SetCtrlCAborts(true)

	s, err := f(l)

	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
		return "", ErrAborted
	default:
		return "", err
	}
}

// ResolveChoice turns operator input into an archive name. Empty input picks
// the last archive, a number picks by 1-based position, anything else must
// be an exact archive name.
func ResolveChoice(input string, names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoArchives
	}

	input = strings.TrimSpace(input)

	if input == "" {
		return names[len(names)-1], nil
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(names) {
			return names[n-1], nil
		}

		return "", fmt.Errorf("%w: %d", ErrInvalidChoice, n)
	}

	for _, name := range names {
		if name == input {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidChoice, input)
}

// SelectArchive asks until the answer names an archive.
func SelectArchive(p Prompter, out io.Writer, names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoArchives
	}

	for {
		input, err := p.Line("Archive (num/name/Enter=last): ")
		if err != nil {
			return "", err
		}

		name, err := ResolveChoice(input, names)
		if err == nil {
			return name, nil
		}

		_, _ = fmt.Fprintln(out, "❌ Invalid")
	}
}

// Confirm reports whether the answer to prompt is y or Y.
func Confirm(p Prompter, prompt string) (bool, error) {
	input, err := p.Line(prompt)
	if err != nil {
		return false, err
	}

	return strings.EqualFold(strings.TrimSpace(input), "y"), nil
}

// ConfirmPhrase reports whether the operator typed phrase exactly.
func ConfirmPhrase(p Prompter, prompt, phrase string) (bool, error) {
	input, err := p.Line(prompt)
	if err != nil {
		return false, err
	}

	return strings.TrimSpace(input) == phrase, nil
}
