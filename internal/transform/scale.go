// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/staranto/tabfeat/internal/frame"
)

// MinMaxScale maps each column linearly onto [0, 1] using its own observed
// minimum and maximum. A constant column maps to 0. Missing cells stay
// missing. A column with rows but no values is an error.
type MinMaxScale struct {
	Label string
	// Columns to scale. Empty means every column.
	Columns []string
}

func (s MinMaxScale) Name() string {
	if len(s.Columns) == 0 {
		return label(s.Label, "min_max_scale", "*")
	}
	return label(s.Label, "min_max_scale", s.Columns...)
}

func (s MinMaxScale) Apply(f *frame.Frame) (*frame.Frame, error) {
	names := s.Columns
	if len(names) == 0 {
		names = f.Names()
	}

	out := f
	for _, name := range names {
		col, err := out.Column(name)
		if err != nil {
			return nil, err
		}
		present, err := col.Present()
		if err != nil {
			return nil, err
		}
		if len(present) == 0 {
			if out.NumRows() == 0 {
				continue
			}
			return nil, fmt.Errorf("column %q has no values to scale", name)
		}

		lo, hi := floats.Min(present), floats.Max(present)
		span := hi - lo
		values, _ := col.Floats()
		for i, v := range values {
			if col.IsNull(i) {
				continue
			}
			if span == 0 {
				values[i] = 0
				continue
			}
			scaled := (v - lo) / span
			// Keep rounding error inside the closed interval.
			if scaled < 0 {
				scaled = 0
			} else if scaled > 1 {
				scaled = 1
			}
			values[i] = scaled
		}
		if out, err = out.WithColumn(frame.NewFloatColumn(name, values, col.Valid())); err != nil {
			return nil, err
		}
	}
	return out, nil
}
