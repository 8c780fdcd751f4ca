// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/staranto/tabfeat/internal/frame"
)

// ImputeMean fills missing cells of a numeric column with the mean of the
// present cells.
type ImputeMean struct {
	Label  string
	Column string
}

func (s ImputeMean) Name() string { return label(s.Label, "impute_mean", s.Column) }

func (s ImputeMean) Apply(f *frame.Frame) (*frame.Frame, error) {
	col, err := f.Column(s.Column)
	if err != nil {
		return nil, err
	}
	present, err := col.Present()
	if err != nil {
		return nil, err
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("column %q has no values to average", s.Column)
	}
	if len(present) == col.Len() {
		return f, nil
	}

	mean := stat.Mean(present, nil)
	values, _ := col.Floats()
	for i := range values {
		if col.IsNull(i) {
			values[i] = mean
		}
	}
	return f.WithColumn(frame.NewFloatColumn(s.Column, values, nil))
}

// ImputeConstant fills missing cells with a fixed value. The value is parsed
// as a number when the column is numeric.
type ImputeConstant struct {
	Label  string
	Column string
	Value  string
}

func (s ImputeConstant) Name() string { return label(s.Label, "impute_constant", s.Column) }

func (s ImputeConstant) Apply(f *frame.Frame) (*frame.Frame, error) {
	col, err := f.Column(s.Column)
	if err != nil {
		return nil, err
	}
	if col.NullCount() == 0 {
		return f, nil
	}

	if col.Kind() == frame.Float {
		fill, err := strconv.ParseFloat(s.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("fill value %q for numeric column %q: %w", s.Value, s.Column, err)
		}
		values, _ := col.Floats()
		for i := range values {
			if col.IsNull(i) {
				values[i] = fill
			}
		}
		return f.WithColumn(frame.NewFloatColumn(s.Column, values, nil))
	}

	values := col.Strings()
	for i := range values {
		if col.IsNull(i) {
			values[i] = s.Value
		}
	}
	return f.WithColumn(frame.NewStringColumn(s.Column, values, nil))
}

// DropColumns removes columns. Every named column must exist.
type DropColumns struct {
	Label   string
	Columns []string
}

func (s DropColumns) Name() string { return label(s.Label, "drop_columns", s.Columns...) }

func (s DropColumns) Apply(f *frame.Frame) (*frame.Frame, error) {
	return f.Drop(s.Columns...)
}

// DropMissing removes every row with a missing cell in any of the columns.
type DropMissing struct {
	Label   string
	Columns []string
}

func (s DropMissing) Name() string { return label(s.Label, "drop_missing", s.Columns...) }

func (s DropMissing) Apply(f *frame.Frame) (*frame.Frame, error) {
	keep := make([]bool, f.NumRows())
	for i := range keep {
		keep[i] = true
	}
	dropped := 0
	for _, name := range s.Columns {
		col, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		for i := range keep {
			if keep[i] && col.IsNull(i) {
				keep[i] = false
				dropped++
			}
		}
	}
	if dropped == 0 {
		return f, nil
	}
	return f.Filter(keep)
}

func label(explicit, kind string, columns ...string) string {
	if explicit != "" {
		return explicit
	}
	return kind + "(" + strings.Join(columns, ",") + ")"
}
