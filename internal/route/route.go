// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoRoute is returned when no rule matches an input location.
var ErrNoRoute = errors.New("no route matches input")

// Rule strategies.
const (
	StrategyPattern = "pattern"
	StrategySegment = "segment"
)

// Rule maps an input location to an output location.
//
// The pattern strategy matches Match, a regular expression with named groups,
// against the whole input and expands Output with ${group} references.
//
// The segment strategy removes the slash-delimited path segment at index
// Segment, leaving other segments with the same text alone. It then replaces
// the first occurrence of Marker with Replace and appends File.
type Rule struct {
	Strategy string `koanf:"strategy" yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Match    string `koanf:"match" yaml:"match,omitempty" json:"match,omitempty"`
	Output   string `koanf:"output" yaml:"output,omitempty" json:"output,omitempty"`
	Segment  int    `koanf:"segment" yaml:"segment,omitempty" json:"segment,omitempty"`
	Marker   string `koanf:"marker" yaml:"marker,omitempty" json:"marker,omitempty"`
	Replace  string `koanf:"replace" yaml:"replace,omitempty" json:"replace,omitempty"`
	File     string `koanf:"file" yaml:"file,omitempty" json:"file,omitempty"`
}

type compiled struct {
	Rule
	re *regexp.Regexp
}

// Router resolves output locations using the first matching rule.
type Router struct {
	rules []compiled
}

// New validates and compiles rules.
func New(rules []Rule) (*Router, error) {
	r := &Router{rules: make([]compiled, 0, len(rules))}
	for i, rule := range rules {
		c, err := compile(rule)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i+1, err)
		}
		r.rules = append(r.rules, c)
	}
	return r, nil
}

func compile(rule Rule) (compiled, error) {
	c := compiled{Rule: rule}
	switch rule.Strategy {
	case "", StrategyPattern:
		c.Strategy = StrategyPattern
		if rule.Match == "" || rule.Output == "" {
			return c, errors.New("pattern route needs match and output")
		}
		re, err := regexp.Compile(rule.Match)
		if err != nil {
			return c, fmt.Errorf("match: %w", err)
		}
		names := make(map[string]bool)
		for _, n := range re.SubexpNames() {
			names[n] = true
		}
		for _, ref := range refs(rule.Output) {
			if !names[ref] {
				return c, fmt.Errorf("output references unknown group %q", ref)
			}
		}
		c.re = re
	case StrategySegment:
		if rule.Segment < 1 {
			return c, fmt.Errorf("segment must be at least 1, got %d", rule.Segment)
		}
		if rule.Marker == "" || rule.File == "" {
			return c, errors.New("segment route needs marker and file")
		}
	default:
		return c, fmt.Errorf("unknown strategy %q", rule.Strategy)
	}
	return c, nil
}

var refRE = regexp.MustCompile(`\$\{(\w+)\}`)

func refs(template string) []string {
	var out []string
	for _, m := range refRE.FindAllStringSubmatch(template, -1) {
		out = append(out, m[1])
	}
	return out
}

// Rules returns the configured rules in evaluation order.
func (r *Router) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	for i, c := range r.rules {
		out[i] = c.Rule
	}
	return out
}

// Resolve returns the output location for input. Rules are tried in order and
// the first that applies wins.
func (r *Router) Resolve(input string) (string, error) {
	var reasons []string
	for i, c := range r.rules {
		out, err := c.apply(input)
		if err == nil {
			return out, nil
		}
		reasons = append(reasons, fmt.Sprintf("route %d: %v", i+1, err))
	}
	if len(reasons) == 0 {
		return "", fmt.Errorf("%w %q: no routes configured", ErrNoRoute, input)
	}
	return "", fmt.Errorf("%w %q (%s)", ErrNoRoute, input, strings.Join(reasons, "; "))
}

func (c compiled) apply(input string) (string, error) {
	if c.Strategy == StrategySegment {
		return c.applySegment(input)
	}
	m := c.re.FindStringSubmatchIndex(input)
	if m == nil || m[0] != 0 || m[1] != len(input) {
		return "", fmt.Errorf("%q does not match", c.Match)
	}
	return string(c.re.ExpandString(nil, c.Output, input, m)), nil
}

func (c compiled) applySegment(input string) (string, error) {
	parts := strings.Split(input, "/")
	if len(parts) <= c.Segment {
		return "", fmt.Errorf("path has %d segments, need more than %d", len(parts), c.Segment)
	}
	token := parts[c.Segment]
	if token == "" {
		return "", fmt.Errorf("segment %d is empty", c.Segment)
	}
	base := strings.Join(append(parts[:c.Segment:c.Segment], parts[c.Segment+1:]...), "/")
	if !strings.Contains(base, c.Marker) {
		return "", fmt.Errorf("path does not contain %q", c.Marker)
	}
	dir := strings.Replace(base, c.Marker, c.Replace, 1)
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return dir + c.File, nil
}
