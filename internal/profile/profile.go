// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package profile computes per-column summary statistics of a frame.
package profile

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/staranto/tabfeat/internal/frame"
)

// Column summarises one column. Numeric statistics are nil for string columns
// and for numeric columns without values.
type Column struct {
	Position int      `json:"position"`
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Count    int      `json:"count"`
	Missing  int      `json:"missing"`
	Distinct int      `json:"distinct"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Mean     *float64 `json:"mean,omitempty"`
	StdDev   *float64 `json:"stddev,omitempty"`
	Top      string   `json:"top,omitempty"`
	TopCount int      `json:"top_count,omitempty"`
}

// Of profiles every column of f in column order.
func Of(f *frame.Frame) []Column {
	out := make([]Column, 0, f.NumCols())
	for i, c := range f.Columns() {
		out = append(out, column(i, c))
	}
	return out
}

func column(pos int, c *frame.Column) Column {
	p := Column{
		Position: pos,
		Name:     c.Name(),
		Kind:     c.Kind().String(),
		Missing:  c.NullCount(),
	}
	p.Count = c.Len() - p.Missing

	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			counts[c.Str(i)]++
		}
	}
	p.Distinct = len(counts)

	if c.Kind() == frame.String {
		p.Top, p.TopCount = top(counts)
		return p
	}

	present, _ := c.Present()
	if len(present) == 0 {
		return p
	}
	mean, std := stat.MeanStdDev(present, nil)
	if len(present) == 1 {
		std = 0
	}
	p.Min = ptr(floats.Min(present))
	p.Max = ptr(floats.Max(present))
	p.Mean = ptr(mean)
	p.StdDev = ptr(std)
	return p
}

// top returns the most frequent value, breaking ties by the smaller value.
func top(counts map[string]int) (string, int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var best string
	n := 0
	for _, k := range keys {
		if counts[k] > n {
			best, n = k, counts[k]
		}
	}
	return best, n
}

func ptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
