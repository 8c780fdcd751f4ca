// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tabfeat/internal/frame"
	"github.com/staranto/tabfeat/internal/meta"
	"github.com/staranto/tabfeat/internal/output"
	"github.com/staranto/tabfeat/internal/pipeline"
	"github.com/staranto/tabfeat/internal/profile"
	"github.com/staranto/tabfeat/internal/storage"
)

var describeDefaultAttrs = []string{"name", "kind", "count", "missing", "distinct", "min", "max", "mean"}

type description struct {
	Source  string           `json:"source"`
	Rows    int              `json:"rows"`
	Columns []profile.Column `json:"columns"`
}

// DescribeCommandAction is the action handler for the "describe" subcommand.
// It profiles every column of the input, or of the pipeline output when
// --transformed is set.
func DescribeCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	attrs := BuildAttrs(cmd, describeDefaultAttrs...)
	log.Debugf("attrs: %v", attrs)

	def, err := LoadPipeline(cmd)
	if err != nil {
		return err
	}
	in, err := storage.ParseLocation(cmd.String("input"))
	if err != nil {
		return err
	}
	mux, err := NewMux(ctx, cmd, in)
	if err != nil {
		return err
	}
	f, err := ReadInput(ctx, mux, in, def)
	if err != nil {
		return err
	}

	if cmd.Bool("transformed") {
		if f, err = transformed(ctx, def, f); err != nil {
			return err
		}
	}

	raw, err := json.Marshal(description{
		Source:  in.String(),
		Rows:    f.NumRows(),
		Columns: profile.Of(f),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	return output.SliceDiceSpit(raw, attrs, cmd, "columns", Stdout(cmd))
}

func transformed(ctx context.Context, def *pipeline.Definition, f *frame.Frame) (*frame.Frame, error) {
	p, err := pipeline.Build(def)
	if err != nil {
		return nil, err
	}
	out, _, err := p.Run(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}
	return out, nil
}

// DescribeCommandBuilder constructs the cli.Command for "describe".
func DescribeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "describe",
		Usage:     "profile the columns of a dataset",
		UsageText: `tabfeat describe --input LOC [--transformed] [options]`,
		Flags: []cli.Flag{
			NewInputFlag("describe"),
			NewPipelineFlag("describe"),
			&cli.BoolFlag{
				Name:  "transformed",
				Usage: "profile the pipeline output instead of the input",
				Value: false,
			},
		},
		Action: DescribeCommandAction,
		Meta:   meta,
	}).Build(NewGlobalFlags("describe"), NewAWSFlags("describe"))
}
