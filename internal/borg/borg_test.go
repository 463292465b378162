// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package borg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matt-FFFFFF/sysvault/internal/runbatch/runbatchtest"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPassword struct {
	value  string
	err    error
	prompt string
}

func (f *fixedPassword) Password(prompt string) (string, error) {
	f.prompt = prompt
	return f.value, f.err
}

func TestEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/root/.ssh/backup key", []byte("k"), 0o600))

	env, err := Env(fs, "ssh://nas/./repo", "/root/.ssh/backup key", "secret")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		EnvRepo:          "ssh://nas/./repo",
		EnvPassphrase:    "secret",
		EnvUnencryptedOK: "yes",
		EnvRsh:           "ssh -i '/root/.ssh/backup key' -o StrictHostKeyChecking=no",
	}, env)
}

func TestEnv_KeyMissing(t *testing.T) {
	_, err := Env(afero.NewMemMapFs(), "repo", "/root/.ssh/absent", "x")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestEnv_ExpandsHome(t *testing.T) {
	stubs := gostub.StubFunc(&homeDir, "/home/ops", nil)
	defer stubs.Reset()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/home/ops/.ssh/borg", []byte("k"), 0o600))

	env, err := Env(fs, "repo", "~/.ssh/borg", "x")
	require.NoError(t, err)
	assert.Equal(t, "ssh -i /home/ops/.ssh/borg -o StrictHostKeyChecking=no", env[EnvRsh])

	p, err := ExpandHome("/abs/~/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/~/path", p)
}

func TestResolvePassphrase(t *testing.T) {
	env := func(v string) func(string) string {
		return func(k string) string {
			if k == EnvPassphrase {
				return v
			}

			return ""
		}
	}

	tests := []struct {
		name    string
		flag    string
		env     string
		reader  *fixedPassword
		want    string
		wantErr error
		asked   bool
	}{
		{name: "flag wins", flag: "f", env: "e", reader: &fixedPassword{value: "p"}, want: "f"},
		{name: "environment next", env: "e", reader: &fixedPassword{value: "p"}, want: "e"},
		{name: "prompt last", reader: &fixedPassword{value: "p"}, want: "p", asked: true},
		{name: "prompt fails", reader: &fixedPassword{err: errors.New("aborted")}, wantErr: ErrNoPassphrase, asked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePassphrase(tt.flag, env(tt.env), tt.reader)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.Equal(t, tt.asked, tt.reader.prompt != "")
		})
	}

	_, err := ResolvePassphrase("", env(""), nil)
	assert.ErrorIs(t, err, ErrNoPassphrase)
}

func TestArchiveName(t *testing.T) {
	ts := time.Date(2025, 3, 9, 7, 5, 1, 0, time.UTC)

	assert.Equal(t, "web01-2025-03-09_07-05-01", ArchiveName("web01.example.com", ts))
	assert.Equal(t, "web01-2025-03-09_07-05-01", ArchiveName("web01", ts))
}

func TestParseArchives(t *testing.T) {
	out := "web01-2025-01-01_00-00-00\tWed, 2025-01-01 00:00:00\n\n  \nno-time\n  padded\tThu  \n"

	got := ParseArchives(out)
	assert.Equal(t, []Archive{
		{Name: "web01-2025-01-01_00-00-00", Time: "Wed, 2025-01-01 00:00:00"},
		{Name: "no-time"},
		{Name: "padded", Time: "Thu"},
	}, got)
	assert.Equal(t, []string{"web01-2025-01-01_00-00-00", "no-time", "padded"}, Names(got))
	assert.Empty(t, ParseArchives("\n\n"))
}

func testEnv() map[string]string {
	return map[string]string{EnvRepo: "ssh://nas/./repo", EnvPassphrase: "x"}
}

func TestEnsureRepo(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		rec := &runbatchtest.Recorder{}
		c := NewClient(rec, testEnv(), "zstd,6", "repokey-blake2")

		created, err := c.EnsureRepo(context.Background())
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, []string{"borg list"}, rec.Lines())
	})

	t.Run("created", func(t *testing.T) {
		rec := (&runbatchtest.Recorder{}).On("borg list", runbatchtest.Response{ExitCode: 2})
		c := NewClient(rec, testEnv(), "zstd,6", "repokey-blake2")

		created, err := c.EnsureRepo(context.Background())
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, []string{"borg list", "borg init --encryption repokey-blake2"}, rec.Lines())
		assert.Equal(t, "ssh://nas/./repo", rec.Calls()[1].Env[EnvRepo])
	})

	t.Run("init fails", func(t *testing.T) {
		rec := (&runbatchtest.Recorder{}).
			On("borg list", runbatchtest.Response{ExitCode: 2}).
			On("borg init", runbatchtest.Response{ExitCode: 1})
		c := NewClient(rec, testEnv(), "zstd,6", "repokey-blake2")

		_, err := c.EnsureRepo(context.Background())
		assert.ErrorIs(t, err, ErrInitRepo)
	})
}

func TestListArchives(t *testing.T) {
	rec := (&runbatchtest.Recorder{}).On("borg list --format", runbatchtest.Response{Output: "a\t1\nb\t2\n"})
	c := NewClient(rec, testEnv(), "zstd,6", "repokey-blake2")

	got, err := c.ListArchives(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Archive{{Name: "a", Time: "1"}, {Name: "b", Time: "2"}}, got)
	assert.Equal(t, []string{"borg list --format {archive}{TAB}{time}{NL}"}, rec.Lines())

	rec.On("borg list --format", runbatchtest.Response{ExitCode: 2})

	_, err = c.ListArchives(context.Background())
	assert.ErrorIs(t, err, ErrListArchives)
}

func TestCommandBuilders(t *testing.T) {
	c := NewClient(&runbatchtest.Recorder{}, testEnv(), "zstd,6", "repokey-blake2")

	create := c.CreateCommand("web01-x", []string{"/proc/**", "/tmp/**"})
	assert.Equal(t,
		"borg create ::web01-x / --stats --progress --compression zstd,6 --exclude-caches --exclude /proc/** --exclude /tmp/**",
		runbatchtest.Line(create))
	assert.Equal(t, testEnv(), create.Env)

	extract := c.ExtractCommand("web01-x", "/mnt/target", []string{"etc/fstab"})
	assert.Equal(t, "sudo borg extract ::web01-x --list --progress --exclude etc/fstab", runbatchtest.Line(extract))
	assert.True(t, extract.PreserveEnv)
	assert.Equal(t, "/mnt/target", extract.Cwd)

	assert.Equal(t, "borg info ::a", runbatchtest.Line(c.InfoCommand("a")))
	assert.Equal(t, "borg list ::a --last 5", runbatchtest.Line(c.ListLastCommand("a", 5)))
	assert.Equal(t, "borg delete --progress --stats --glob-archives *", runbatchtest.Line(c.DeleteAllCommand()))
	assert.Equal(t, "borg compact", runbatchtest.Line(c.CompactCommand()))

	create.Env["MUTATED"] = "1"
	assert.NotContains(t, c.Env(), "MUTATED", "commands get their own copy of the environment")
}
