// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package pipeline loads pipeline definitions and builds runnable transform
// pipelines from them.
//
// A definition is YAML with a schema_version, input and output CSV options, an
// ordered list of stages and an ordered list of output routes. When no file is
// given, the built-in wine reviews definition is used. Any scalar key can be
// overridden from the environment with the TABFEAT_PIPELINE__ prefix, using
// "__" for nesting.
package pipeline
