// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/staranto/tabfeat/internal/frame"
)

// FrequencyRank adds a column holding, for every row, the rank of the share
// of rows that carry the same category. Rows with equal categories always get
// equal ranks.
type FrequencyRank struct {
	Label  string
	Column string
	// Output defaults to "<Column>_freq".
	Output string
	Method RankMethod
}

func (s FrequencyRank) Name() string { return label(s.Label, "frequency_rank", s.Column) }

func (s FrequencyRank) Apply(f *frame.Frame) (*frame.Frame, error) {
	col, err := f.Column(s.Column)
	if err != nil {
		return nil, err
	}
	if n := col.NullCount(); n > 0 {
		return nil, fmt.Errorf("column %q has %d missing values; impute or drop them first", s.Column, n)
	}

	rows := col.Len()
	counts := make(map[string]int)
	for i := 0; i < rows; i++ {
		counts[col.Str(i)]++
	}
	shares := make([]float64, rows)
	for i := range shares {
		shares[i] = float64(counts[col.Str(i)]) / float64(rows)
	}

	out := s.Output
	if out == "" {
		out = s.Column + "_freq"
	}
	return f.WithColumn(frame.NewFloatColumn(out, Rank(shares, s.Method), nil))
}

// TargetEncode adds a column replacing each category with the mean of a
// numeric target over the rows of that category, blended towards the global
// mean for rare categories. It is fitted and applied on the same rows.
type TargetEncode struct {
	Label  string
	Column string
	Target string
	// Output defaults to "<Column>_transformed".
	Output string
	// MinSamplesLeaf is the category size at which the category mean and the
	// prior are weighted equally.
	MinSamplesLeaf float64
	// Smoothing controls how steeply the weight moves from prior to category
	// mean. Must be positive.
	Smoothing float64
}

// Target encoding defaults.
const (
	DefaultMinSamplesLeaf = 20
	DefaultSmoothing      = 10
)

func (s TargetEncode) Name() string { return label(s.Label, "target_encode", s.Column, s.Target) }

func (s TargetEncode) Apply(f *frame.Frame) (*frame.Frame, error) {
	col, err := f.Column(s.Column)
	if err != nil {
		return nil, err
	}
	tcol, err := f.Column(s.Target)
	if err != nil {
		return nil, err
	}
	target, err := tcol.Floats()
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if n := tcol.NullCount(); n > 0 {
		return nil, fmt.Errorf("target column %q has %d missing values", s.Target, n)
	}
	if len(target) == 0 {
		return f.WithColumn(frame.NewFloatColumn(s.output(), nil, nil))
	}
	smoothing := s.Smoothing
	if smoothing <= 0 {
		return nil, fmt.Errorf("smoothing must be positive, got %v", smoothing)
	}

	prior := stat.Mean(target, nil)

	groups := make(map[string][]float64)
	for i, y := range target {
		if col.IsNull(i) {
			continue
		}
		k := col.Str(i)
		groups[k] = append(groups[k], y)
	}

	encoding := make(map[string]float64, len(groups))
	for k, ys := range groups {
		n := float64(len(ys))
		if len(ys) == 1 {
			encoding[k] = prior
			continue
		}
		weight := 1 / (1 + math.Exp(-(n-s.MinSamplesLeaf)/smoothing))
		encoding[k] = prior*(1-weight) + stat.Mean(ys, nil)*weight
	}

	values := make([]float64, len(target))
	for i := range values {
		if col.IsNull(i) {
			values[i] = prior
			continue
		}
		values[i] = encoding[col.Str(i)]
	}
	return f.WithColumn(frame.NewFloatColumn(s.output(), values, nil))
}

func (s TargetEncode) output() string {
	if s.Output != "" {
		return s.Output
	}
	return s.Column + "_transformed"
}

// OneHot replaces a categorical column with one 0/1 indicator column per
// distinct value, in order of first appearance. Indicators are appended after
// the existing columns.
type OneHot struct {
	Label  string
	Column string
	// UseNames names indicators "<Column>_<value>" instead of
	// "<Column>_<n>".
	UseNames bool
}

func (s OneHot) Name() string { return label(s.Label, "one_hot", s.Column) }

func (s OneHot) Apply(f *frame.Frame) (*frame.Frame, error) {
	col, err := f.Column(s.Column)
	if err != nil {
		return nil, err
	}
	if n := col.NullCount(); n > 0 {
		return nil, fmt.Errorf("column %q has %d missing values; drop them first", s.Column, n)
	}

	var categories []string
	ids := make(map[string]int)
	rowIDs := make([]int, col.Len())
	for i := range rowIDs {
		v := col.Str(i)
		id, ok := ids[v]
		if !ok {
			id = len(categories)
			ids[v] = id
			categories = append(categories, v)
		}
		rowIDs[i] = id
	}

	out, err := f.Drop(s.Column)
	if err != nil {
		return nil, err
	}
	for id, cat := range categories {
		indicator := make([]float64, len(rowIDs))
		for i, rid := range rowIDs {
			if rid == id {
				indicator[i] = 1
			}
		}
		name := s.Column + "_" + strconv.Itoa(id+1)
		if s.UseNames {
			name = s.Column + "_" + cat
		}
		if out.Has(name) {
			return nil, fmt.Errorf("indicator column %q already exists", name)
		}
		if out, err = out.WithColumn(frame.NewFloatColumn(name, indicator, nil)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
