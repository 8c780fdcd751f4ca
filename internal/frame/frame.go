// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrLengthMismatch is returned when columns disagree on row count.
	ErrLengthMismatch = errors.New("column length mismatch")
)

// Frame is an ordered set of equally long columns. Operations return new
// frames and leave the receiver untouched.
type Frame struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New builds a Frame from columns. Names must be unique and all columns must
// have the same length.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{
		cols:  make([]*Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if i == 0 {
			f.rows = c.Len()
		} else if c.Len() != f.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d: %w", c.Name(), c.Len(), f.rows, ErrLengthMismatch)
		}
		if _, dup := f.index[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name())
		}
		f.index[c.Name()] = len(f.cols)
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// NumRows returns the row count.
func (f *Frame) NumRows() int { return f.rows }

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name()
	}
	return names
}

// Columns returns the columns in order.
func (f *Frame) Columns() []*Column {
	return append([]*Column(nil), f.cols...)
}

// Has reports whether the frame has a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Column, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
	}
	return f.cols[i], nil
}

// Drop returns a frame without the named columns. Every name must exist.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := make(map[string]bool, len(names))
	var missing []string
	for _, n := range names {
		if !f.Has(n) {
			missing = append(missing, n)
		}
		drop[n] = true
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(missing, ", "), ErrColumnNotFound)
	}

	kept := make([]*Column, 0, len(f.cols))
	for _, c := range f.cols {
		if !drop[c.Name()] {
			kept = append(kept, c)
		}
	}
	return f.withCols(kept), nil
}

// WithColumn returns a frame where c replaces the column of the same name, or
// is appended when no such column exists.
func (f *Frame) WithColumn(c *Column) (*Frame, error) {
	if len(f.cols) > 0 && c.Len() != f.rows {
		return nil, fmt.Errorf("column %q has %d rows, frame has %d: %w", c.Name(), c.Len(), f.rows, ErrLengthMismatch)
	}
	cols := append([]*Column(nil), f.cols...)
	if i, ok := f.index[c.Name()]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return New(cols...)
}

// Filter returns a frame holding only the rows where keep is true.
func (f *Frame) Filter(keep []bool) (*Frame, error) {
	if len(keep) != f.rows {
		return nil, fmt.Errorf("filter mask has %d entries, frame has %d rows: %w", len(keep), f.rows, ErrLengthMismatch)
	}
	idx := make([]int, 0, f.rows)
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	cols := make([]*Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.take(idx)
	}
	out := f.withCols(cols)
	out.rows = len(idx)
	return out, nil
}

func (f *Frame) withCols(cols []*Column) *Frame {
	out := &Frame{
		cols:  cols,
		index: make(map[string]int, len(cols)),
		rows:  f.rows,
	}
	for i, c := range cols {
		out.index[c.Name()] = i
	}
	return out
}
