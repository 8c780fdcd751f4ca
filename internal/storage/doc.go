// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package storage reads and writes whole dataset objects on the local
// filesystem and in S3.
package storage
