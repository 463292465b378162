// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package livetail

import "regexp"

// Placeholder is shown in the progress row until a percentage has been seen.
const Placeholder = "--"

var percentPattern = regexp.MustCompile(`(\d{1,3})%`)

// ProgressState remembers the last percentage seen in the output. Once set it
// is only ever replaced, never cleared.
type ProgressState struct {
	value string
	set   bool
}

// Observe records the first "NN%" in line, if any, and reports whether one was found.
func (p *ProgressState) Observe(line string) bool {
	m := percentPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}

	p.value = m[1]
	p.set = true

	return true
}

// Value returns the digits of the last percentage and whether one was ever seen.
func (p *ProgressState) Value() (string, bool) {
	return p.value, p.set
}

// String returns the value, or Placeholder when unset.
func (p *ProgressState) String() string {
	if !p.set {
		return Placeholder
	}

	return p.value
}
