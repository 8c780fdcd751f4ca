// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/staranto/tabfeat/internal/frame"
	"github.com/staranto/tabfeat/internal/transform"
)

// Formats accepted by Write.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Report summarises one transform run.
type Report struct {
	Input       string                  `json:"input" yaml:"input"`
	Output      string                  `json:"output" yaml:"output"`
	Pipeline    string                  `json:"pipeline" yaml:"pipeline"`
	DryRun      bool                    `json:"dry_run" yaml:"dry_run"`
	RowsIn      int                     `json:"rows_in" yaml:"rows_in"`
	RowsOut     int                     `json:"rows_out" yaml:"rows_out"`
	RowsDropped int                     `json:"rows_dropped" yaml:"rows_dropped"`
	Columns     []string                `json:"columns" yaml:"columns"`
	Indicators  int                     `json:"indicator_columns" yaml:"indicator_columns"`
	Bytes       int                     `json:"bytes" yaml:"bytes"`
	Digest      string                  `json:"blake2b_256" yaml:"blake2b_256"`
	Stages      []transform.StageResult `json:"stages" yaml:"stages"`
	Started     time.Time               `json:"started" yaml:"started"`
	Duration    time.Duration           `json:"duration_ns" yaml:"duration_ns"`
}

// Run is what a transform run hands to New.
type Run struct {
	Input    string
	Output   string
	Pipeline string
	DryRun   bool
	Started  time.Time
	In       *frame.Frame
	Out      *frame.Frame
	Stages   []transform.Stage
	Results  []transform.StageResult
	Data     []byte
}

// New builds a report. Stages and Results are paired by position.
func New(r Run) *Report {
	rep := &Report{
		Input:    r.Input,
		Output:   r.Output,
		Pipeline: r.Pipeline,
		DryRun:   r.DryRun,
		RowsIn:   r.In.NumRows(),
		RowsOut:  r.Out.NumRows(),
		Columns:  r.Out.Names(),
		Bytes:    len(r.Data),
		Digest:   Digest(r.Data),
		Stages:   r.Results,
		Started:  r.Started.UTC(),
		Duration: time.Since(r.Started),
	}
	rep.RowsDropped = rep.RowsIn - rep.RowsOut

	for i, s := range r.Stages {
		if i >= len(r.Results) {
			break
		}
		if _, ok := s.(transform.OneHot); ok {
			// The source column is replaced, so the net gain is one short.
			rep.Indicators += r.Results[i].ColsOut - r.Results[i].ColsIn + 1
		}
	}
	return rep
}

// Digest returns the hex BLAKE2b-256 of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Write renders the report in format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		return r.writeText(w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func (r *Report) writeText(w io.Writer) error {
	var sb strings.Builder
	verb := "wrote"
	if r.DryRun {
		verb = "would write"
	}
	fmt.Fprintf(&sb, "%s -> %s\n", r.Input, r.Output)
	fmt.Fprintf(&sb, "pipeline %s, %d stages in %s\n", r.Pipeline, len(r.Stages), r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&sb, "rows %s in, %s out, %s dropped\n",
		humanize.Comma(int64(r.RowsIn)), humanize.Comma(int64(r.RowsOut)), humanize.Comma(int64(r.RowsDropped)))
	fmt.Fprintf(&sb, "%s %d columns (%d indicators), %s\n", verb, len(r.Columns), r.Indicators, humanize.Bytes(uint64(r.Bytes)))
	fmt.Fprintf(&sb, "blake2b-256 %s\n", r.Digest)
	for i, s := range r.Stages {
		fmt.Fprintf(&sb, "  %2d %-44s rows %d -> %d  cols %d -> %d\n", i+1, s.Name, s.RowsIn, s.RowsOut, s.ColsIn, s.ColsOut)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
