// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/tabfeat/internal/config"
	"github.com/staranto/tabfeat/internal/report"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

// NewGlobalFlags returns the rendering flags shared by commands that print a
// result set. params[0] is the command name and config namespace.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewInputFlag constructs the required --input flag. --s3_input_dataset is
// accepted so Glue-style job arguments work unchanged.
func NewInputFlag(ns string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i", "s3_input_dataset"},
		Usage:    "input dataset location (s3://bucket/key or a local path)",
		Required: true,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TABFEAT_INPUT"),
		),
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, LocationValidator)
		},
	}
}

// NewPipelineFlag constructs the --pipeline flag. Empty selects the built-in
// wine reviews pipeline.
func NewPipelineFlag(ns string) *cli.StringFlag {
	return NameSpacedValueChainFlagFromConfigFile(ns, cfg.Source, &cli.StringFlag{
		Name:    "pipeline",
		Aliases: []string{"p"},
		Usage:   "pipeline definition file (default built-in)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TABFEAT_PIPELINE"),
		),
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator)
		},
	})
}

// NewAWSFlags constructs the flags that shape the S3 client.
func NewAWSFlags(ns string) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, cfg.Source, &cli.StringFlag{
			Name:  "region",
			Usage: "AWS region. Overrides the shared config",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TABFEAT_REGION"),
			),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, cfg.Source, &cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TABFEAT_PROFILE"),
			),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, cfg.Source, &cli.StringFlag{
			Name:  "endpoint",
			Usage: "custom S3 endpoint, e.g. LocalStack or MinIO",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TABFEAT_S3_ENDPOINT"),
			),
		}),
		&cli.BoolFlag{
			Name:  "path-style",
			Usage: "use path-style S3 addressing",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TABFEAT_S3_PATH_STYLE"),
				yaml.YAML(ns+".path-style", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("path-style", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}
}

// NewTransformFlags constructs the flags specific to the transform command.
func NewTransformFlags(ns string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output location. Overrides the pipeline routes",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TABFEAT_OUTPUT"),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, LocationValidator)
			},
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "transform but do not write the output",
			Value: false,
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "write a run report to this file, - for stdout",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TABFEAT_REPORT"),
			),
		},
		NameSpacedValueChainFlagFromConfigFile(ns, cfg.Source, &cli.StringFlag{
			Name:  "report-format",
			Usage: "run report format (json, yaml, text)",
			Value: report.FormatJSON,
			Validator: func(value string) error {
				return FlagValidators(value, ReportFormatValidator)
			},
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, cfg.Source, &cli.StringFlag{
			Name:  "pushgateway",
			Usage: "Prometheus Pushgateway URL for run metrics",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TABFEAT_PUSHGATEWAY"),
			),
		}),
		&cli.StringFlag{
			Name:    "job-name",
			Aliases: []string{"JOB_NAME"},
			Usage:   "job name used when pushing metrics",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("TABFEAT_JOB_NAME"),
			),
			Value: "tabfeat",
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
