// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package borg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/afero"
)

const (
	// EnvRepo names the repository.
	EnvRepo = "BORG_REPO"
	// EnvRsh is the ssh command borg uses for remote repositories.
	EnvRsh = "BORG_RSH"
	// EnvPassphrase is the repository passphrase.
	EnvPassphrase = "BORG_PASSPHRASE"
	// EnvUnencryptedOK lets borg open repositories created without encryption.
	EnvUnencryptedOK = "BORG_UNKNOWN_UNENCRYPTED_REPO_ACCESS_IS_OK"

	passphrasePrompt = "🔐 Passphrase: "
)

var (
	// ErrKeyNotFound is returned when the SSH key file does not exist.
	ErrKeyNotFound = errors.New("ssh key not found")
	// ErrNoPassphrase is returned when no passphrase could be obtained.
	ErrNoPassphrase = errors.New("no passphrase given")
)

// homeDir is replaced in tests.
var homeDir = os.UserHomeDir

// PasswordReader reads a secret without echoing it.
type PasswordReader interface {
	Password(prompt string) (string, error)
}

// Env returns the variables every borg command runs with. An empty keyPath
// leaves BORG_RSH unset.
func Env(fs afero.Fs, repo, keyPath, passphrase string) (map[string]string, error) {
	env := map[string]string{
		EnvRepo:          repo,
		EnvPassphrase:    passphrase,
		EnvUnencryptedOK: "yes",
	}

	if keyPath == "" {
		return env, nil
	}

	key, err := ExpandHome(keyPath)
	if err != nil {
		return nil, err
	}

	if ok, _ := afero.Exists(fs, key); !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	env[EnvRsh] = RshCommand(key)

	return env, nil
}

// RshCommand is the BORG_RSH value for an identity file.
func RshCommand(key string) string {
	return "ssh -i " + shellquote.Join(key) + " -o StrictHostKeyChecking=no"
}

// ExpandHome replaces a leading ~ with the home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}

	home, err := homeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// ResolvePassphrase returns flag when set, then the BORG_PASSPHRASE
// environment variable, then asks r.
func ResolvePassphrase(flag string, getenv func(string) string, r PasswordReader) (string, error) {
	if flag != "" {
		return flag, nil
	}

	if v := getenv(EnvPassphrase); v != "" {
		return v, nil
	}

	if r == nil {
		return "", ErrNoPassphrase
	}

	p, err := r.Password(passphrasePrompt)
	if err != nil {
		return "", errors.Join(ErrNoPassphrase, err)
	}

	return p, nil
}
