// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/spf13/afero"
)

// ErrGetConfigFile is returned when the file cannot be fetched.
var ErrGetConfigFile = errors.New("failed to get config file")

// FsFactory returns the filesystem local config files are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Load fetches the config file at url and overlays it on base. A url naming
// an existing local file is read directly. Anything else is handed to
// go-getter and must name the file after a // subdirectory separator, as in
// git::https://example.com/ops.git//backup/sysvault.yaml?ref=main.
func Load(ctx context.Context, url string, base Config) (Config, error) {
	data, name, err := Fetch(ctx, url)
	if err != nil {
		return base, err
	}

	return Parse(name, data, base)
}

// Fetch returns the bytes of the file at url and its file name.
func Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", ErrGetConfigFile
	}

	fs := FsFactory()
	if ok, _ := afero.Exists(fs, url); ok {
		b, err := afero.ReadFile(fs, url)
		if err != nil {
			return nil, "", errors.Join(ErrGetConfigFile, err)
		}

		return b, filepath.Base(url), nil
	}

	return getURL(ctx, url)
}

// getURL retrieves the file at url with go-getter into a temporary directory
// that is removed before returning.
func getURL(ctx context.Context, url string) ([]byte, string, error) {
	tmpDir, err := os.MkdirTemp("", "sysvault-getter-*")
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string

	// Remote sources are fetched as a directory and the file read from it.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, "", errors.Join(ErrGetConfigFile, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return nil, "", fmt.Errorf("%w: invalid URL format: %s", ErrGetConfigFile, url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	b, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	return b, fileName, nil
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host, and path
)

// splitFileNameFromGetterURL splits a go-getter URL into the URL of the
// containing directory and the file name, keeping any query string (such as
// ?ref=) on the directory URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var query string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]
	if before, after, ok := strings.Cut(last, goGetterRefSeparator); ok {
		last, query = before, after
	}

	if last == "" || strings.HasSuffix(last, "/") {
		return "", ""
	}

	fileName := filepath.Base(last)
	dir := filepath.Dir(last)

	if dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	newURL := strings.Join(parts, goGetterPathSeparator)
	if query != "" {
		newURL += goGetterRefSeparator + query
	}

	return newURL, fileName
}
