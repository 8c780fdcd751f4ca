// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/staranto/tabfeat/internal/frame"
	"github.com/staranto/tabfeat/internal/route"
)

// SchemaVersion is the only definition schema understood.
const SchemaVersion = "v1"

// EnvPrefix prefixes environment overrides. Nesting uses "__", so
// TABFEAT_PIPELINE__INPUT__DELIMITER sets input.delimiter.
const EnvPrefix = "TABFEAT_PIPELINE__"

//go:embed default.yaml
var defaultYAML []byte

// Definition describes how to read, transform, write and route a table.
type Definition struct {
	SchemaVersion string       `koanf:"schema_version" yaml:"schema_version" json:"schema_version"`
	Input         InputSpec    `koanf:"input" yaml:"input" json:"input"`
	Output        OutputSpec   `koanf:"output" yaml:"output" json:"output"`
	Stages        []StageSpec  `koanf:"stages" yaml:"stages" json:"stages"`
	Routes        []route.Rule `koanf:"routes" yaml:"routes,omitempty" json:"routes,omitempty"`
}

type InputSpec struct {
	Delimiter  string   `koanf:"delimiter" yaml:"delimiter" json:"delimiter"`
	NullValues []string `koanf:"null_values" yaml:"null_values,omitempty" json:"null_values,omitempty"`
}

type OutputSpec struct {
	Delimiter string `koanf:"delimiter" yaml:"delimiter" json:"delimiter"`
}

// StageSpec is the configuration form of one transform stage. Which fields are
// required depends on Type.
type StageSpec struct {
	Type           string   `koanf:"type" yaml:"type" json:"type"`
	Name           string   `koanf:"name" yaml:"name,omitempty" json:"name,omitempty"`
	Column         string   `koanf:"column" yaml:"column,omitempty" json:"column,omitempty"`
	Columns        []string `koanf:"columns" yaml:"columns,omitempty" json:"columns,omitempty"`
	Value          *string  `koanf:"value" yaml:"value,omitempty" json:"value,omitempty"`
	Output         string   `koanf:"output" yaml:"output,omitempty" json:"output,omitempty"`
	Target         string   `koanf:"target" yaml:"target,omitempty" json:"target,omitempty"`
	Method         string   `koanf:"method" yaml:"method,omitempty" json:"method,omitempty"`
	MinSamplesLeaf *float64 `koanf:"min_samples_leaf" yaml:"min_samples_leaf,omitempty" json:"min_samples_leaf,omitempty"`
	Smoothing      *float64 `koanf:"smoothing" yaml:"smoothing,omitempty" json:"smoothing,omitempty"`
	UseNames       bool     `koanf:"use_names" yaml:"use_names,omitempty" json:"use_names,omitempty"`
}

// ReadOptions returns the CSV options for reading input.
func (d *Definition) ReadOptions() frame.ReadOptions {
	return frame.ReadOptions{
		Comma:      delimiter(d.Input.Delimiter, ';'),
		NullValues: d.Input.NullValues,
	}
}

// WriteOptions returns the CSV options for writing output.
func (d *Definition) WriteOptions() frame.WriteOptions {
	return frame.WriteOptions{Comma: delimiter(d.Output.Delimiter, ',')}
}

func delimiter(s string, fallback rune) rune {
	if s == `\t` {
		return '\t'
	}
	r := []rune(s)
	if len(r) == 0 {
		return fallback
	}
	return r[0]
}

// Default returns the built-in wine reviews definition.
func Default() *Definition {
	k := koanf.New(".")
	if err := k.Load(embedded(defaultYAML), yaml.Parser()); err != nil {
		panic(fmt.Sprintf("pipeline: embedded default: %v", err))
	}
	var d Definition
	if err := k.Unmarshal("", &d); err != nil {
		panic(fmt.Sprintf("pipeline: embedded default: %v", err))
	}
	return &d
}

// Load reads the definition at path, or the built-in default when path is
// empty, applies TABFEAT_PIPELINE__ environment overrides and validates the
// result.
func Load(path string) (*Definition, error) {
	k := koanf.New(".")

	if path == "" {
		if err := k.Load(embedded(defaultYAML), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("pipeline definition: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("pipeline definition %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	var d Definition
	if err := k.Unmarshal("", &d); err != nil {
		return nil, fmt.Errorf("pipeline definition: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// Validate checks the schema version, the delimiters and every stage.
func (d *Definition) Validate() error {
	if d.SchemaVersion != SchemaVersion {
		return fmt.Errorf("pipeline schema_version %q not supported (want %s)", d.SchemaVersion, SchemaVersion)
	}
	for _, s := range []string{d.Input.Delimiter, d.Output.Delimiter} {
		if s != `\t` && len([]rune(s)) > 1 {
			return fmt.Errorf("delimiter %q must be a single character", s)
		}
	}
	if len(d.Stages) == 0 {
		return errors.New("pipeline has no stages")
	}
	for i, s := range d.Stages {
		if _, err := s.Stage(); err != nil {
			return fmt.Errorf("stage %d (%s): %w", i+1, s.Type, err)
		}
	}
	if _, err := route.New(d.Routes); err != nil {
		return err
	}
	return nil
}

// embedded is a koanf.Provider over an in-memory document.
type embedded []byte

func (e embedded) ReadBytes() ([]byte, error) { return e, nil }

func (e embedded) Read() (map[string]interface{}, error) {
	return nil, errors.New("embedded provider does not support Read")
}
