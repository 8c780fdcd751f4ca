// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tabfeat/internal/command"
)

// Man page generator. Walks the tabfeat command tree and writes
// docs/man/share/man1/tabfeat-<cmd>.1 for every subcommand, rendered from
// generated markdown by md2man.

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	if err := os.MkdirAll(manOutDir, 0o755); err != nil {
		fatalf("creating man output dir: %v", err)
	}

	app, err := command.InitApp(context.Background(), []string{"tabfeat"})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	for _, cmd := range app.Commands {
		manBytes := md2man.Render([]byte(commandMarkdown(app.Name, cmd)))
		manPath := filepath.Join(manOutDir, fmt.Sprintf("%s-%s.1", app.Name, cmd.Name))
		if err := writeFileIfChanged(manPath, manBytes, writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd.Name, err)
		}
	}

	if len(app.Commands) == 0 {
		fatalf("no commands found")
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

// commandMarkdown renders the md2man source for one subcommand.
func commandMarkdown(app string, cmd *cli.Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s-%s 1 \"\" \"\" \"%s manual\"\n", app, cmd.Name, app)
	b.WriteString("=====\n\n")

	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "%s-%s - %s\n\n", app, cmd.Name, cmd.Usage)

	b.WriteString("# SYNOPSIS\n\n")
	usage := cmd.UsageText
	if usage == "" {
		usage = app + " " + cmd.Name + " [options]"
	}
	for _, ln := range strings.Split(usage, "\n") {
		fmt.Fprintf(&b, "`%s`\n\n", strings.TrimSpace(ln))
	}

	b.WriteString("# OPTIONS\n\n")
	flags := append([]cli.Flag(nil), cmd.Flags...)
	sort.Slice(flags, func(i, j int) bool { return flags[i].Names()[0] < flags[j].Names()[0] })
	for _, f := range flags {
		b.WriteString(flagMarkdown(f))
	}
	return b.String()
}

func flagMarkdown(f cli.Flag) string {
	var names []string
	for _, n := range f.Names() {
		if len(n) == 1 {
			names = append(names, "-"+n)
		} else {
			names = append(names, "--"+n)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", strings.Join(names, ", "))

	df, ok := f.(cli.DocGenerationFlag)
	if !ok {
		b.WriteString("\n\n")
		return b.String()
	}
	if df.TakesValue() {
		b.WriteString(" _value_")
	}
	b.WriteString("\n:   " + df.GetUsage())
	if envs := df.GetEnvVars(); len(envs) > 0 {
		fmt.Fprintf(&b, " (env: %s)", strings.Join(envs, ", "))
	}
	b.WriteString("\n\n")
	return b.String()
}
