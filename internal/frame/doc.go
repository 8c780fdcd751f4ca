// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package frame is a small immutable, column-oriented table with CSV
// encoding.
package frame
