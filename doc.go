// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// tabfeat is the main package for the tabfeat command line tool. It turns a
// raw wine reviews CSV into a numeric, model-ready feature table, reading and
// writing the local filesystem or S3.
package main
