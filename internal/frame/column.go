// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"fmt"
	"strconv"
)

// Kind is the storage type of a Column.
type Kind int

const (
	String Kind = iota
	Float
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is a named, typed vector with a validity mask. A Column is never
// modified once built; transformations build new ones.
type Column struct {
	name  string
	kind  Kind
	strs  []string
	nums  []float64
	valid []bool
}

// NewStringColumn builds a String column. A nil valid slice marks every cell
// as present.
func NewStringColumn(name string, values []string, valid []bool) *Column {
	c := &Column{
		name:  name,
		kind:  String,
		strs:  append([]string(nil), values...),
		valid: validMask(len(values), valid),
	}
	return c
}

// NewFloatColumn builds a Float column. A nil valid slice marks every cell as
// present.
func NewFloatColumn(name string, values []float64, valid []bool) *Column {
	c := &Column{
		name:  name,
		kind:  Float,
		nums:  append([]float64(nil), values...),
		valid: validMask(len(values), valid),
	}
	return c
}

func validMask(n int, valid []bool) []bool {
	mask := make([]bool, n)
	if valid == nil {
		for i := range mask {
			mask[i] = true
		}
		return mask
	}
	copy(mask, valid)
	return mask
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column storage type.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.valid) }

// IsNull reports whether cell i is missing.
func (c *Column) IsNull(i int) bool { return !c.valid[i] }

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.valid {
		if !v {
			n++
		}
	}
	return n
}

// Str returns cell i rendered as a string. Missing cells are "".
func (c *Column) Str(i int) string {
	if !c.valid[i] {
		return ""
	}
	if c.kind == Float {
		return FormatFloat(c.nums[i])
	}
	return c.strs[i]
}

// Float returns cell i of a Float column. Missing cells are 0.
func (c *Column) Float(i int) float64 {
	if c.kind != Float || !c.valid[i] {
		return 0
	}
	return c.nums[i]
}

// Floats returns a copy of the values of a Float column.
func (c *Column) Floats() ([]float64, error) {
	if c.kind != Float {
		return nil, fmt.Errorf("column %q is not numeric (%s)", c.name, c.kind)
	}
	return append([]float64(nil), c.nums...), nil
}

// Strings returns a copy of the cells rendered as strings.
func (c *Column) Strings() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.Str(i)
	}
	return out
}

// Valid returns a copy of the validity mask.
func (c *Column) Valid() []bool {
	return append([]bool(nil), c.valid...)
}

// Present returns the values of the non-missing cells of a Float column.
func (c *Column) Present() ([]float64, error) {
	if c.kind != Float {
		return nil, fmt.Errorf("column %q is not numeric (%s)", c.name, c.kind)
	}
	out := make([]float64, 0, len(c.nums))
	for i, v := range c.nums {
		if c.valid[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

// Rename returns a copy of the column with a new name.
func (c *Column) Rename(name string) *Column {
	cp := *c
	cp.name = name
	return &cp
}

// take returns a new column holding the rows at idx, in order.
func (c *Column) take(idx []int) *Column {
	out := &Column{name: c.name, kind: c.kind, valid: make([]bool, len(idx))}
	if c.kind == Float {
		out.nums = make([]float64, len(idx))
	} else {
		out.strs = make([]string, len(idx))
	}
	for j, i := range idx {
		out.valid[j] = c.valid[i]
		if c.kind == Float {
			out.nums[j] = c.nums[i]
		} else {
			out.strs[j] = c.strs[i]
		}
	}
	return out
}

// FormatFloat renders v in its shortest round-trip form, keeping a trailing
// ".0" on integral values and switching to exponent form outside
// [1e-4, 1e16).
func FormatFloat(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for _, r := range s {
		if r == '.' || r == 'N' || r == 'I' {
			return s
		}
	}
	return s + ".0"
}
