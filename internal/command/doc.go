// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for tabfeat. It wires flags,
// validators and actions for the transform, describe and route subcommands.
package command
