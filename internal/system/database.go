// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package system

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/sysvault/internal/ctxlog"
	"github.com/matt-FFFFFF/sysvault/internal/runbatch"
	"github.com/spf13/afero"
)

const (
	// MySQLDumpFile is the name of the MySQL dump in the dump directory.
	MySQLDumpFile = "mysql_dump.sql"
	// PostgresDumpFile is the name of the PostgreSQL dump in the dump directory.
	PostgresDumpFile = "postgres_dump.sql"

	postgresUser = "postgres"
)

// database describes one SQL server: how to dump it and how to load a dump back.
type database struct {
	name    string
	file    string
	dumper  string
	dump    func(out string) *runbatch.OSCommand
	loader  string
	restore func(in string) *runbatch.OSCommand
}

var databases = []database{
	{
		name:   "MySQL",
		file:   MySQLDumpFile,
		dumper: "mysqldump",
		dump: func(out string) *runbatch.OSCommand {
			cmd := elevated("mysqldump", "mysqldump", "--all-databases", "--single-transaction")
			cmd.StdoutFile = out

			return cmd
		},
		loader: "mysql",
		restore: func(in string) *runbatch.OSCommand {
			cmd := elevated("mysql restore", "mysql")
			cmd.StdinFile = in
			cmd.PassThrough = true

			return cmd
		},
	},
	{
		name:   "PG",
		file:   PostgresDumpFile,
		dumper: "pg_dumpall",
		dump: func(out string) *runbatch.OSCommand {
			cmd := runbatch.NewOSCommand("pg_dumpall", "sudo", "-u", postgresUser, "pg_dumpall")
			cmd.StdoutFile = out

			return cmd
		},
		loader: "psql",
		restore: func(in string) *runbatch.OSCommand {
			cmd := runbatch.NewOSCommand("psql restore", "sudo", "-u", postgresUser, "psql")
			cmd.StdinFile = in
			cmd.PassThrough = true

			return cmd
		},
	},
}

// DumpSQL dumps every SQL server whose dump tool is installed and returns
// the dump files that were written. A failed dump is logged and skipped
// only if it left no file behind.
func (s *System) DumpSQL(ctx context.Context) []string {
	var dumps []string

	for _, db := range databases {
		if !s.hasCommand(db.dumper) {
			continue
		}

		f := filepath.Join(s.dumpDir, db.file)
		s.run(ctx, db.dump(f))

		info, err := s.fs.Stat(f)
		if err != nil {
			ctxlog.Debug(ctx, "sql dump missing", "engine", db.name, "file", f)
			continue
		}

		ctxlog.Info(ctx, fmt.Sprintf("🗄️ %s → %s (%s)", db.name, f, humanize.Bytes(uint64(info.Size()))))

		dumps = append(dumps, f)
	}

	return dumps
}

// RestoreSQL loads each dump found in the dump directory whose client is
// installed, then deletes the dump.
func (s *System) RestoreSQL(ctx context.Context) error {
	var merr *multierror.Error

	for _, db := range databases {
		f := filepath.Join(s.dumpDir, db.file)

		if ok, _ := afero.Exists(s.fs, f); !ok || !s.hasCommand(db.loader) {
			continue
		}

		ctxlog.Info(ctx, "🗄️ Restore "+db.loader)

		if res, ok := s.run(ctx, db.restore(f)); !ok {
			merr = multierror.Append(merr, res.Error)
		}

		if err := s.fs.Remove(f); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	return merr.ErrorOrNil()
}

// RemoveDumps deletes dump files. Files already gone are not an error.
func (s *System) RemoveDumps(ctx context.Context, files []string) {
	for _, f := range files {
		if err := s.fs.Remove(f); err != nil {
			if ok, _ := afero.Exists(s.fs, f); ok {
				ctxlog.Warn(ctx, "could not remove dump", "file", f, "error", err)
			}
		}
	}
}
