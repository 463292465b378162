// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds the settings of a backup or restore run.
//
// Settings start from Defaults, are overlaid by an optional YAML or HCL file
// fetched with go-getter, and finally by command line flags.
package config
