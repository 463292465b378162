// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package borg

import (
	"strings"
	"time"
)

// ArchiveTimeFormat is the timestamp suffix of archive names.
const ArchiveTimeFormat = "2006-01-02_15-04-05"

// ListFormat makes borg list print one archive per line as name TAB time.
const ListFormat = "{archive}{TAB}{time}{NL}"

// Archive is one entry of a repository listing.
type Archive struct {
	Name string
	Time string
}

// ArchiveName names a new archive after the short host name and t.
func ArchiveName(host string, t time.Time) string {
	short, _, _ := strings.Cut(host, ".")
	return short + "-" + t.Format(ArchiveTimeFormat)
}

// ParseArchives parses borg list output in ListFormat. Blank lines are
// skipped and a line without a tab has an empty time.
func ParseArchives(out string) []Archive {
	var archives []Archive

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, t, _ := strings.Cut(line, "\t")
		archives = append(archives, Archive{Name: name, Time: t})
	}

	return archives
}

// Names returns the archive names in order.
func Names(archives []Archive) []string {
	out := make([]string, len(archives))
	for i, a := range archives {
		out[i] = a.Name
	}

	return out
}
