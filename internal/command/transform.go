// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tabfeat/internal/frame"
	"github.com/staranto/tabfeat/internal/meta"
	"github.com/staranto/tabfeat/internal/metrics"
	"github.com/staranto/tabfeat/internal/pipeline"
	"github.com/staranto/tabfeat/internal/report"
	"github.com/staranto/tabfeat/internal/storage"
)

// TransformCommandAction is the action handler for the "transform"
// subcommand. It reads the input dataset, runs the pipeline, and writes the
// result to the explicit or routed output location.
func TransformCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)
	started := time.Now()

	def, err := LoadPipeline(cmd)
	if err != nil {
		return err
	}
	p, err := pipeline.Build(def)
	if err != nil {
		return err
	}

	in, err := storage.ParseLocation(cmd.String("input"))
	if err != nil {
		return err
	}
	out, err := ResolveOutput(def, cmd.String("input"), cmd.String("output"))
	if err != nil {
		return err
	}
	log.Debugf("input: %s, output: %s", in, out)

	mux, err := NewMux(ctx, cmd, in, out)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()

	raw, err := ReadInput(ctx, mux, in, def)
	if err != nil {
		return err
	}
	collector.Read(raw.NumRows())

	result, results, err := p.Run(ctx, raw)
	collector.Stages(results)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}

	// The whole document is rendered before anything is written so a failure
	// never leaves a partial output behind.
	var buf bytes.Buffer
	if err := frame.WriteCSV(&buf, result, def.WriteOptions()); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	dryRun := cmd.Bool("dry-run")
	if dryRun {
		log.Infof("dry run, not writing %s", out)
	} else {
		if err := mux.Put(ctx, out, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		collector.Written(result.NumRows(), time.Now())
	}

	if url := cmd.String("pushgateway"); url != "" {
		if err := collector.Push(ctx, url, cmd.String("job-name")); err != nil {
			log.Errorf("failed to push metrics: %v", err)
		}
	}

	pipelineName := cmd.String("pipeline")
	if pipelineName == "" {
		pipelineName = "built-in"
	}
	rep := report.New(report.Run{
		Input:    in.String(),
		Output:   out.String(),
		Pipeline: pipelineName,
		DryRun:   dryRun,
		Started:  started,
		In:       raw,
		Out:      result,
		Stages:   p.Stages(),
		Results:  results,
		Data:     buf.Bytes(),
	})
	return writeReport(cmd, rep)
}

// ResolveOutput returns the explicit output location when one is given,
// otherwise the one derived from input, as given, by the definition's routes.
func ResolveOutput(def *pipeline.Definition, input, explicit string) (storage.Location, error) {
	if explicit != "" {
		return storage.ParseLocation(explicit)
	}

	router, err := def.Router()
	if err != nil {
		return storage.Location{}, err
	}
	resolved, err := router.Resolve(input)
	if err != nil {
		return storage.Location{}, err
	}
	return storage.ParseLocation(resolved)
}

func writeReport(cmd *cli.Command, rep *report.Report) error {
	path := cmd.String("report")
	if path == "" {
		return nil
	}

	var w io.Writer
	if path == "-" {
		w = Stdout(cmd)
	} else {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := rep.Write(w, cmd.String("report-format")); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// TransformCommandBuilder constructs the cli.Command for "transform".
func TransformCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:  "transform",
		Usage: "transform a dataset into model features",
		UsageText: `tabfeat transform --input LOC [options]
tabfeat --JOB_NAME NAME --s3_input_dataset s3://bucket/glue-in/file.csv`,
		Flags: []cli.Flag{
			NewInputFlag("transform"),
			NewPipelineFlag("transform"),
		},
		Action: TransformCommandAction,
		Meta:   meta,
	}).Build(NewTransformFlags("transform"), NewAWSFlags("transform"))
}
