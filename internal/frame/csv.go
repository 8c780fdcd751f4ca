// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultNullValues are the cell values read as missing.
var DefaultNullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a",
	"nan", "null",
}

// ReadOptions controls ReadCSV.
type ReadOptions struct {
	// Comma is the field delimiter. Zero means ';'.
	Comma rune
	// NullValues are cell values treated as missing. Nil means
	// DefaultNullValues.
	NullValues []string
}

// WriteOptions controls WriteCSV.
type WriteOptions struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// ReadCSV loads a delimited document with a header row. A column whose
// non-missing cells all parse as numbers becomes a Float column, everything
// else is a String column.
func ReadCSV(r io.Reader, opts ReadOptions) (*Frame, error) {
	comma := opts.Comma
	if comma == 0 {
		comma = ';'
	}
	nulls := opts.NullValues
	if nulls == nil {
		nulls = DefaultNullValues
	}
	isNull := make(map[string]bool, len(nulls))
	for _, n := range nulls {
		isNull[n] = true
	}

	reader := csv.NewReader(r)
	reader.Comma = comma

	// First line is expected to be a header.
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("error reading header: empty document")
		}
		return nil, fmt.Errorf("error reading header: %w", err)
	}
	names := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = h
	}

	cells := make([][]string, len(names))
	valid := make([][]bool, len(names))
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", line, err)
		}
		for i, v := range record {
			cells[i] = append(cells[i], v)
			valid[i] = append(valid[i], !isNull[v])
		}
	}

	cols := make([]*Column, len(names))
	for i, name := range names {
		cols[i] = inferColumn(name, cells[i], valid[i])
	}
	return New(cols...)
}

// inferColumn returns a Float column when every present cell parses as a
// number. A column with no present cells is Float.
func inferColumn(name string, cells []string, valid []bool) *Column {
	nums := make([]float64, len(cells))
	for i, v := range cells {
		if !valid[i] {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return NewStringColumn(name, cells, valid)
		}
		nums[i] = f
	}
	return NewFloatColumn(name, nums, valid)
}

// WriteCSV serialises f with a header row and no index column. Missing cells
// are written empty.
func WriteCSV(w io.Writer, f *Frame, opts WriteOptions) error {
	comma := opts.Comma
	if comma == 0 {
		comma = ','
	}
	writer := csv.NewWriter(w)
	writer.Comma = comma

	if err := writer.Write(f.Names()); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	record := make([]string, f.NumCols())
	for row := 0; row < f.NumRows(); row++ {
		for i, c := range f.cols {
			record[i] = c.Str(row)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing row %d: %w", row, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
