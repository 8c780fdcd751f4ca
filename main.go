// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/tabfeat/internal/cacheutil"
	"github.com/staranto/tabfeat/internal/command"
	"github.com/staranto/tabfeat/internal/config"
	mylog "github.com/staranto/tabfeat/internal/log"
	"github.com/staranto/tabfeat/internal/version"
)

// defaultCommand runs when the first argument is a flag, which is how Glue
// hands job arguments to a script.
const defaultCommand = "transform"

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil {
		// Non-fatal: print to stderr and continue.
		fmt.Fprintln(os.Stderr, err)
	} else if ok {
		hours, _ := config.GetInt("cache_ttl_hours", 168)
		if err := cacheutil.Purge(hours); err != nil {
			log.WithError(err).Warn("cache purge failed")
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

func isHelpOrVersion(a string) bool {
	switch a {
	case "--help", "-h", "--version", "-v":
		return true
	}
	return false
}

func mangleArguments(args []string) []string {
	if isHelpOrVersion(args[1]) {
		return args
	}

	// A leading flag means no subcommand was named.
	if strings.HasPrefix(args[1], "-") {
		args = append([]string{args[0], defaultCommand}, args[1:]...)
	}

	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	// Now scan through args and if there is not a @set, insert @defaults after
	// the command.
	idx := 2
	set := "defaults"
	// See if there is a @set specified. If so, that becomes our insertion point
	// and the @set entry is removed from args.
	workingArgs := append([]string{}, args...)
	for i, a := range workingArgs[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			idx += i
			workingArgs = append(workingArgs[:idx], workingArgs[idx+1:]...)
			break
		}
	}

	setArgs, _ := config.GetStringSlice(workingArgs[1] + "." + set)
	for _, arg := range setArgs {
		parts := strings.Fields(arg)
		workingArgs = append(workingArgs[:idx], append(parts, workingArgs[idx:]...)...)
		idx += len(parts)
	}

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, workingArgs)
	return workingArgs
}
