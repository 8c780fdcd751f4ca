// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package route derives output locations from input locations using an
// ordered list of configured rules. A location that no rule matches is an
// error rather than a guess.
package route
