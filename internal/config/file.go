// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrParseConfigFile is returned when a config file cannot be decoded.
	ErrParseConfigFile = errors.New("failed to parse config file")
)

// fileExcludes mirrors Excludes. A nil slice leaves the current patterns in place.
type fileExcludes struct {
	Base     []string `yaml:"base"     hcl:"base,optional"`
	Identity []string `yaml:"identity" hcl:"identity,optional"`
	Restore  []string `yaml:"restore"  hcl:"restore,optional"`
}

// fileConfig is the on-disk form. Every field is optional.
type fileConfig struct {
	Repo        *string       `yaml:"repo"        hcl:"repo,optional"`
	KeyPath     *string       `yaml:"key"         hcl:"key,optional"`
	Passphrase  *string       `yaml:"passphrase"  hcl:"passphrase,optional"`
	StateDir    *string       `yaml:"state_dir"   hcl:"state_dir,optional"`
	DumpDir     *string       `yaml:"dump_dir"    hcl:"dump_dir,optional"`
	LogFile     *string       `yaml:"log"         hcl:"log,optional"`
	TailLines   *int          `yaml:"tail_lines"  hcl:"tail_lines,optional"`
	Live        *bool         `yaml:"live"        hcl:"live,optional"`
	Compression *string       `yaml:"compression" hcl:"compression,optional"`
	Encryption  *string       `yaml:"encryption"  hcl:"encryption,optional"`
	Packages    []string      `yaml:"packages"    hcl:"packages,optional"`
	Excludes    *fileExcludes `yaml:"exclude"     hcl:"exclude,block"`
}

// Parse decodes a config file and overlays it on base. Files named *.hcl are
// HCL, where the process environment is available as env; anything else is YAML.
func Parse(name string, data []byte, base Config) (Config, error) {
	var fc fileConfig

	if filepath.Ext(name) == ".hcl" {
		if err := hclsimple.Decode(filepath.Base(name), data, EvalContext(os.Environ()), &fc); err != nil {
			return base, errors.Join(ErrParseConfigFile, err)
		}
	} else if err := yaml.UnmarshalWithOptions(data, &fc, yaml.Strict()); err != nil {
		return base, errors.Join(ErrParseConfigFile, fmt.Errorf("%s: %w", name, err))
	}

	return fc.overlay(base), nil
}

// EvalContext exposes environ, a list of KEY=VALUE strings, to HCL
// expressions as the env object.
func EvalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		vars[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

func (fc fileConfig) overlay(c Config) Config {
	setIf(&c.Repo, fc.Repo)
	setIf(&c.KeyPath, fc.KeyPath)
	setIf(&c.Passphrase, fc.Passphrase)
	setIf(&c.StateDir, fc.StateDir)
	setIf(&c.DumpDir, fc.DumpDir)
	setIf(&c.LogFile, fc.LogFile)
	setIf(&c.TailLines, fc.TailLines)
	setIf(&c.Live, fc.Live)
	setIf(&c.Compression, fc.Compression)
	setIf(&c.Encryption, fc.Encryption)

	if fc.Packages != nil {
		c.Packages = fc.Packages
	}

	if fc.Excludes != nil {
		if fc.Excludes.Base != nil {
			c.Excludes.Base = fc.Excludes.Base
		}

		if fc.Excludes.Identity != nil {
			c.Excludes.Identity = fc.Excludes.Identity
		}

		if fc.Excludes.Restore != nil {
			c.Excludes.Restore = fc.Excludes.Restore
		}
	}

	return c
}

// Redacted replaces a configured passphrase in Marshal output.
const Redacted = "<redacted>"

// Marshal renders c as a YAML config file that Parse accepts. A passphrase is
// replaced by Redacted.
func Marshal(c Config) ([]byte, error) {
	if c.Passphrase != "" {
		c.Passphrase = Redacted
	}

	fc := fileConfig{
		Repo:        &c.Repo,
		KeyPath:     &c.KeyPath,
		Passphrase:  &c.Passphrase,
		StateDir:    &c.StateDir,
		DumpDir:     &c.DumpDir,
		LogFile:     &c.LogFile,
		TailLines:   &c.TailLines,
		Live:        &c.Live,
		Compression: &c.Compression,
		Encryption:  &c.Encryption,
		Packages:    c.Packages,
		Excludes: &fileExcludes{
			Base:     c.Excludes.Base,
			Identity: c.Excludes.Identity,
			Restore:  c.Excludes.Restore,
		},
	}

	return yaml.Marshal(fc)
}
