// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs the steps of a backup or restore.
//
// Steps are either OS processes (OSCommand) or Go functions (FunctionCommand)
// and are grouped into a SerialBatch. Once a step fails, later steps that run
// on success are skipped while cleanup steps marked RunOnAlways still run.
// The batch result aggregates the failures of all children.
package runbatch
