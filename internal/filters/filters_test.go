// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/staranto/tabfeat/internal/attrs"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
	}{
		{
			name: "empty spec",
			spec: "",
		},
		{
			name: "exact match",
			spec: "kind=string",
			want: []Filter{{Key: "kind", Operand: "=", Target: "string"}},
		},
		{
			name: "negated exact match",
			spec: "kind!=float",
			want: []Filter{{Key: "kind", Operand: "=", Target: "float", Negate: true}},
		},
		{
			name: "numeric and prefix",
			spec: "missing>0,name^region",
			want: []Filter{
				{Key: "missing", Operand: ">", Target: "0"},
				{Key: "name", Operand: "^", Target: "region"},
			},
		},
		{
			name: "inclusive bounds",
			spec: "missing>=1,count!<=3",
			want: []Filter{
				{Key: "missing", Operand: ">=", Target: "1"},
				{Key: "count", Operand: "<=", Target: "3", Negate: true},
			},
		},
		{
			name: "regex",
			spec: "name/^country_\\d+$",
			want: []Filter{{Key: "name", Operand: "/", Target: "^country_\\d+$"}},
		},
		{
			name:      "custom delimiter",
			spec:      "kind=float;missing>0",
			delimiter: ";",
			want: []Filter{
				{Key: "kind", Operand: "=", Target: "float"},
				{Key: "missing", Operand: ">", Target: "0"},
			},
		},
		{
			name: "invalid spec is skipped",
			spec: "novalue,kind=float",
			want: []Filter{{Key: "kind", Operand: "=", Target: "float"}},
		},
		{
			name: "missing key is skipped",
			spec: "=float",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("TABFEAT_FILTER_DELIM", tt.delimiter)
			}
			got := BuildFilters(tt.spec)
			assert.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i])
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		value  string
		filter Filter
		want   bool
	}{
		{"country", Filter{Operand: "=", Target: "country"}, true},
		{"country", Filter{Operand: "=", Target: "country", Negate: true}, false},
		{"Country", Filter{Operand: "~", Target: "country"}, true},
		{"region_1", Filter{Operand: "^", Target: "region"}, true},
		{"b", Filter{Operand: ">", Target: "a"}, true},
		{"b", Filter{Operand: "<", Target: "a"}, false},
		{"b", Filter{Operand: ">=", Target: "b"}, true},
		{"a", Filter{Operand: "<=", Target: "b", Negate: true}, false},
		{"winery_freq", Filter{Operand: "@", Target: "freq"}, true},
		{"country_12", Filter{Operand: "/", Target: `^country_\d+$`}, true},
		{"country", Filter{Operand: "/", Target: `(`}, false},
		{"country", Filter{Operand: "?", Target: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.value+tt.filter.Operand+tt.filter.Target, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	assert.True(t, checkNumericOperand(5, Filter{Operand: ">", Target: "3"}))
	assert.True(t, checkNumericOperand(5, Filter{Operand: "=", Target: " 5 "}))
	assert.False(t, checkNumericOperand(5, Filter{Operand: "=", Target: "5", Negate: true}))
	assert.True(t, checkNumericOperand(0.25, Filter{Operand: "<", Target: "1"}))
	assert.False(t, checkNumericOperand(5, Filter{Operand: ">", Target: "many"}))
	assert.True(t, checkNumericOperand(3, Filter{Operand: ">=", Target: "3"}))
	assert.False(t, checkNumericOperand(3, Filter{Operand: "<=", Target: "2.5"}))
	assert.True(t, checkNumericOperand(0.75, Filter{Operand: "^", Target: "0.7"}), "string operands use the number's text")
	assert.True(t, checkNumericOperand(12, Filter{Operand: "/", Target: `^1\d$`}))
}

func TestCheckContainsOperand(t *testing.T) {
	assert.True(t, checkContainsOperand([]any{"a", "b"}, Filter{Operand: "@", Target: "b"}))
	assert.True(t, checkContainsOperand([]any{"a"}, Filter{Operand: "@", Target: "b", Negate: true}))
	assert.True(t, checkContainsOperand(map[string]any{"k": 1}, Filter{Operand: "@", Target: "k"}))
	assert.False(t, checkContainsOperand(map[string]any{"k": 1}, Filter{Operand: "@", Target: "k", Negate: true}))
	assert.False(t, checkContainsOperand(3, Filter{Operand: "@", Target: "3"}))
}

const profiles = `[
  {"name": "country", "kind": "string", "count": 4, "missing": 1, "top": "US"},
  {"name": "price", "kind": "float", "count": 3, "missing": 2, "mean": 25.5},
  {"name": "points", "kind": "float", "count": 5, "missing": 0, "mean": 88},
  {"name": "winery", "kind": "string", "count": 5, "missing": 0, "top": "A"}
]`

func TestFilterDataset(t *testing.T) {
	attrList := attrs.AttrList{
		{Key: "name", OutputKey: "name", Include: true},
		{Key: "kind", OutputKey: "kind", Include: true},
		{Key: "missing", OutputKey: "missing", Include: true},
		{Key: "mean", OutputKey: "avg", Include: true},
	}

	tests := []struct {
		name      string
		spec      string
		wantNames []string
	}{
		{"no filters", "", []string{"country", "price", "points", "winery"}},
		{"kind", "kind=float", []string{"price", "points"}},
		{"numeric", "missing>0", []string{"country", "price"}},
		{"combined", "kind=string,missing=0", []string{"winery"}},
		{"output key", "avg>50", []string{"points"}},
		{"absent value never matches", "avg<100", []string{"price", "points"}},
		{"unknown key is ignored", "colour=red", []string{"country", "price", "points", "winery"}},
		{"no matches", "name=taster", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(gjson.Parse(profiles), attrList, tt.spec)
			var names []string
			for _, row := range got {
				names = append(names, row["name"].(string))
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}
