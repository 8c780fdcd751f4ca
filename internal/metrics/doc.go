// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package metrics records row counts and stage timings for a run and pushes
// them to a Prometheus Pushgateway.
package metrics
