// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotInPath is returned when an executable cannot be found.
var ErrNotInPath = errors.New("executable not found in PATH")

// FindInPath resolves name to an executable file. Names containing a path
// separator are checked as given; bare names are searched for in PATH.
func FindInPath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrNotInPath)
	}

	if strings.ContainsRune(name, os.PathSeparator) {
		if !isExecutable(name) {
			return "", fmt.Errorf("%w: %s", ErrNotInPath, name)
		}

		return name, nil
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}

		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotInPath, name)
}

// HasCommand reports whether name resolves to an executable.
func HasCommand(name string) bool {
	_, err := FindInPath(name)
	return err == nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	return info.Mode()&0o111 != 0
}
