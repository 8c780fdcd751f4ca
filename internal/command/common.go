// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tabfeat/internal/attrs"
	"github.com/staranto/tabfeat/internal/aws"
	"github.com/staranto/tabfeat/internal/frame"
	"github.com/staranto/tabfeat/internal/meta"
	"github.com/staranto/tabfeat/internal/pipeline"
	"github.com/staranto/tabfeat/internal/storage"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// Stdout returns the writer command output goes to: the root command's Writer
// when one is set, os.Stdout otherwise.
func Stdout(cmd *cli.Command) io.Writer {
	if cmd != nil {
		if root := cmd.Root(); root != nil && root.Writer != nil {
			return root.Writer
		}
	}
	return os.Stdout
}

// CommandBuilder constructs a cli.Command for a subcommand using a consistent
// pattern: metadata wiring, command flags followed by any extra flag groups,
// and the validator run before the action.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build(extra ...[]cli.Flag) *cli.Command {
	flags := append([]cli.Flag{}, cb.Flags...)
	for _, group := range extra {
		flags = append(flags, group...)
	}
	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: cb.Action,
	}
}

// S3StoreFactory builds the store serving s3 locations. Tests replace it with
// one backed by a fake.
var S3StoreFactory = func(ctx context.Context, opts ...aws.Option) (storage.Store, error) {
	client, err := aws.NewS3(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return storage.NewS3Store(client), nil
}

// NewMux returns a storage.Mux able to serve every location in locs. The S3
// client is only created when one of them is in S3.
func NewMux(ctx context.Context, cmd *cli.Command, locs ...storage.Location) (*storage.Mux, error) {
	mux := storage.NewMux()
	for _, loc := range locs {
		if loc.Scheme != storage.SchemeS3 {
			continue
		}
		store, err := S3StoreFactory(ctx, awsOptions(cmd)...)
		if err != nil {
			return nil, err
		}
		mux.Handle(storage.SchemeS3, store)
		break
	}
	return mux, nil
}

func awsOptions(cmd *cli.Command) []aws.Option {
	return []aws.Option{
		aws.WithProfile(cmd.String("profile")),
		aws.WithRegion(cmd.String("region")),
		aws.WithEndpoint(cmd.String("endpoint")),
		aws.WithPathStyle(cmd.Bool("path-style")),
	}
}

// LoadPipeline loads the definition named by --pipeline, or the built-in one.
func LoadPipeline(cmd *cli.Command) (*pipeline.Definition, error) {
	path := cmd.String("pipeline")
	def, err := pipeline.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}
	if path == "" {
		path = "built-in"
	}
	log.Debugf("pipeline: %s, %d stages", path, len(def.Stages))
	return def, nil
}

// ReadInput fetches and parses the --input dataset.
func ReadInput(
	ctx context.Context,
	mux *storage.Mux,
	loc storage.Location,
	def *pipeline.Definition,
) (*frame.Frame, error) {
	raw, err := mux.Get(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", loc, err)
	}
	f, err := frame.ReadCSV(bytes.NewReader(raw), def.ReadOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", loc, err)
	}
	log.Debugf("input %s: %d rows, %d columns", loc, f.NumRows(), f.NumCols())
	return f, nil
}

// GlobalFlagsValidator is run before every subcommand action.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	return nil
}
