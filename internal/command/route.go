// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tabfeat/internal/meta"
	"github.com/staranto/tabfeat/internal/storage"
)

// RouteCommandAction prints the output location transform would write to for
// --input. Nothing is read or written.
func RouteCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	def, err := LoadPipeline(cmd)
	if err != nil {
		return err
	}
	input := cmd.String("input")
	if _, err := storage.ParseLocation(input); err != nil {
		return err
	}
	out, err := ResolveOutput(def, input, "")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(Stdout(cmd), out)
	return err
}

// RouteCommandBuilder constructs the cli.Command for "route".
func RouteCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "route",
		Usage:     "show where transform would write its output",
		UsageText: `tabfeat route --input LOC [--pipeline FILE]`,
		Flags: []cli.Flag{
			NewInputFlag("route"),
			NewPipelineFlag("route"),
		},
		Action: RouteCommandAction,
		Meta:   meta,
	}).Build()
}
