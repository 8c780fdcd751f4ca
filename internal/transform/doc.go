// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package transform holds the feature engineering stages and the Pipeline that
// runs them in order.
//
// Every stage is fitted and applied on the same frame: statistics such as the
// price mean, category frequencies and target means come from the rows the
// stage sees, and nothing is persisted between runs. Stages never modify
// their input frame, so a failed run leaves the caller's data untouched.
//
// Stage order matters. Mean imputation that runs before row dropping averages
// over every input row, which is how the default wine pipeline is arranged.
package transform
