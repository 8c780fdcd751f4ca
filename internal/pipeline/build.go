// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"fmt"

	"github.com/staranto/tabfeat/internal/route"
	"github.com/staranto/tabfeat/internal/transform"
)

// Stage types accepted in a definition.
const (
	TypeImputeMean     = "impute_mean"
	TypeImputeConstant = "impute_constant"
	TypeDropColumns    = "drop_columns"
	TypeDropMissing    = "drop_missing"
	TypeFrequencyRank  = "frequency_rank"
	TypeTargetEncode   = "target_encode"
	TypeOneHot         = "one_hot"
	TypeMinMaxScale    = "min_max_scale"
)

// Build turns a definition into a runnable pipeline.
func Build(d *Definition) (*transform.Pipeline, error) {
	stages := make([]transform.Stage, 0, len(d.Stages))
	for i, s := range d.Stages {
		stage, err := s.Stage()
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i+1, s.Type, err)
		}
		stages = append(stages, stage)
	}
	return transform.NewPipeline(stages...), nil
}

// Router returns a router over the definition's routes.
func (d *Definition) Router() (*route.Router, error) {
	return route.New(d.Routes)
}

// Stage maps a StageSpec to its transform stage.
func (s StageSpec) Stage() (transform.Stage, error) {
	switch s.Type {
	case TypeImputeMean:
		if s.Column == "" {
			return nil, errColumn
		}
		return transform.ImputeMean{Label: s.Name, Column: s.Column}, nil

	case TypeImputeConstant:
		if s.Column == "" {
			return nil, errColumn
		}
		if s.Value == nil {
			return nil, errors.New("value is required")
		}
		return transform.ImputeConstant{Label: s.Name, Column: s.Column, Value: *s.Value}, nil

	case TypeDropColumns:
		if len(s.Columns) == 0 {
			return nil, errColumns
		}
		return transform.DropColumns{Label: s.Name, Columns: s.Columns}, nil

	case TypeDropMissing:
		if len(s.Columns) == 0 {
			return nil, errColumns
		}
		return transform.DropMissing{Label: s.Name, Columns: s.Columns}, nil

	case TypeFrequencyRank:
		if s.Column == "" {
			return nil, errColumn
		}
		method, err := transform.ParseRankMethod(s.Method)
		if err != nil {
			return nil, err
		}
		return transform.FrequencyRank{Label: s.Name, Column: s.Column, Output: s.Output, Method: method}, nil

	case TypeTargetEncode:
		if s.Column == "" {
			return nil, errColumn
		}
		if s.Target == "" {
			return nil, errors.New("target is required")
		}
		te := transform.TargetEncode{
			Label:          s.Name,
			Column:         s.Column,
			Target:         s.Target,
			Output:         s.Output,
			MinSamplesLeaf: transform.DefaultMinSamplesLeaf,
			Smoothing:      transform.DefaultSmoothing,
		}
		if s.MinSamplesLeaf != nil {
			te.MinSamplesLeaf = *s.MinSamplesLeaf
		}
		if s.Smoothing != nil {
			te.Smoothing = *s.Smoothing
		}
		if te.Smoothing <= 0 {
			return nil, fmt.Errorf("smoothing must be positive, got %v", te.Smoothing)
		}
		return te, nil

	case TypeOneHot:
		if s.Column == "" {
			return nil, errColumn
		}
		return transform.OneHot{Label: s.Name, Column: s.Column, UseNames: s.UseNames}, nil

	case TypeMinMaxScale:
		return transform.MinMaxScale{Label: s.Name, Columns: s.Columns}, nil

	case "":
		return nil, errors.New("type is required")
	default:
		return nil, fmt.Errorf("unknown stage type %q", s.Type)
	}
}

var (
	errColumn  = errors.New("column is required")
	errColumns = errors.New("columns is required")
)
