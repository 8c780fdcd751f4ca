// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"

	"github.com/staranto/tabfeat/internal/frame"
)

// Stage is one named, pure step of a Pipeline. Apply must not modify its
// input.
type Stage interface {
	Name() string
	Apply(f *frame.Frame) (*frame.Frame, error)
}

// StageResult records the shape of the data before and after a stage.
type StageResult struct {
	Name     string        `json:"name" yaml:"name"`
	RowsIn   int           `json:"rows_in" yaml:"rows_in"`
	RowsOut  int           `json:"rows_out" yaml:"rows_out"`
	ColsIn   int           `json:"cols_in" yaml:"cols_in"`
	ColsOut  int           `json:"cols_out" yaml:"cols_out"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Dropped returns the number of rows the stage removed.
func (r StageResult) Dropped() int { return r.RowsIn - r.RowsOut }

// Pipeline is an explicit, ordered list of stages. The order is part of the
// contract: later stages rely on the cleaning done by earlier ones.
type Pipeline struct {
	stages []Stage
}

// NewPipeline returns a pipeline running stages in the given order.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: append([]Stage(nil), stages...)}
}

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Run applies every stage in order and returns the final frame. The first
// failing stage aborts the run.
func (p *Pipeline) Run(ctx context.Context, f *frame.Frame) (*frame.Frame, []StageResult, error) {
	results := make([]StageResult, 0, len(p.stages))
	current := f
	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, results, err
		}

		start := time.Now()
		next, err := stage.Apply(current)
		if err != nil {
			return nil, results, fmt.Errorf("stage %d (%s): %w", i+1, stage.Name(), err)
		}

		res := StageResult{
			Name:     stage.Name(),
			RowsIn:   current.NumRows(),
			RowsOut:  next.NumRows(),
			ColsIn:   current.NumCols(),
			ColsOut:  next.NumCols(),
			Duration: time.Since(start),
		}
		log.Debugf("stage %s: rows %d -> %d, cols %d -> %d", res.Name, res.RowsIn, res.RowsOut, res.ColsIn, res.ColsOut)
		results = append(results, res)
		current = next
	}
	return current, results, nil
}
