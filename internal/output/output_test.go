// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/staranto/tabfeat/internal/attrs"
)

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "winery", "count": 3.0, "kind": "string"},
		{"name": "Country", "count": 1.0, "kind": "string"},
		{"name": "price", "count": 2.0, "kind": "float"},
		{"name": "points", "count": nil, "kind": "float"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{"ascending by name", "name", []string{"Country", "points", "price", "winery"}},
		{"descending by name", "-name", []string{"winery", "price", "points", "Country"}},
		{"ascending by count, missing first", "count", []string{"points", "Country", "price", "winery"}},
		{"descending by count", "-count", []string{"winery", "price", "Country", "points"}},
		{"case sensitive", "!name", []string{"Country", "points", "price", "winery"}},
		{"multiple fields", "kind,-count", []string{"price", "points", "winery", "Country"}},
		{"empty spec", "", []string{"winery", "Country", "price", "points"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			var got []string
			for _, row := range data {
				got = append(got, row["name"].(string))
			}
			assert.Equal(t, tt.wantOrder, got)
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "empty string custom", value: "", emptyVal: "-", want: "-"},
		{name: "int", value: 42, want: "42"},
		{name: "zero int", value: 0, want: "0"},
		{name: "float64", value: 42.5, want: "42.5"},
		{name: "integral float64", value: 88.0, want: "88"},
		{name: "zero float64", value: 0.0, want: "0"},
		{name: "bool false", value: false, want: "false"},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: "-", want: "-"},
		{name: "slice", value: []string{"a", "b"}, want: `["a","b"]`},
		{name: "nil map", value: map[string]int(nil), emptyVal: "-", want: "-"},
		{name: "map", value: map[string]int{"x": 1}, want: `{"x":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetColors(t *testing.T) {
	t.Setenv("TABFEAT_CFG", t.TempDir()+"/none.yaml")
	header, even, odd := getColors("colors")
	assert.Equal(t, "#f6be00", header)
	assert.Equal(t, "#ffffff", even)
	assert.Equal(t, "#00c8f0", odd)
}

const doc = `{"source": "wine.csv", "columns": [
  {"name": "country", "kind": "string", "missing": 1, "top": "US"},
  {"name": "price", "kind": "float", "missing": 2, "mean": 25.123456},
  {"name": "points", "kind": "float", "missing": 0, "mean": 88}
]}`

// spit runs SliceDiceSpit inside a command parsed from args.
func spit(t *testing.T, al attrs.AttrList, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cli.Command{
		Name: "describe",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "text"},
			&cli.StringFlag{Name: "filter"},
			&cli.StringFlag{Name: "sort"},
			&cli.BoolFlag{Name: "titles"},
			&cli.BoolFlag{Name: "color"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return SliceDiceSpit([]byte(doc), al, cmd, "columns", &buf)
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"describe"}, args...)))
	return buf.String()
}

func defaultAttrs(t *testing.T, extra string) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set("name,kind,missing,mean"))
	if extra != "" {
		require.NoError(t, al.Set(extra))
	}
	al.SetGlobalTransformSpec()
	return al
}

func TestSliceDiceSpit_JSON(t *testing.T) {
	out := spit(t, defaultAttrs(t, "mean::.2"), "--output", "json", "--filter", "kind=float", "--sort", "-missing")
	rows := gjson.Parse(out)
	require.Equal(t, int64(2), rows.Get("#").Int())
	assert.Equal(t, "price", rows.Get("0.name").String())
	assert.Equal(t, 25.12, rows.Get("0.mean").Float())
	assert.Equal(t, "points", rows.Get("1.name").String())
}

func TestSliceDiceSpit_ExcludedAttr(t *testing.T) {
	out := spit(t, defaultAttrs(t, "!missing"), "--output", "json", "--filter", "missing=0")
	rows := gjson.Parse(out)
	require.Equal(t, int64(1), rows.Get("#").Int())
	assert.Equal(t, "points", rows.Get("0.name").String())
	assert.False(t, rows.Get("0.missing").Exists())
}

func TestSliceDiceSpit_YAML(t *testing.T) {
	out := spit(t, defaultAttrs(t, ""), "--output", "yaml", "--sort", "name")
	var rows []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "country", rows[0]["name"])
}

func TestSliceDiceSpit_Raw(t *testing.T) {
	assert.Equal(t, doc, spit(t, defaultAttrs(t, ""), "--output", "raw"))
}

func TestSliceDiceSpit_Text(t *testing.T) {
	out := spit(t, defaultAttrs(t, "*::u"), "--titles", "--sort", "name")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "name")
	assert.Contains(t, lines[0], "mean")
	assert.Contains(t, lines[1], "COUNTRY")
	assert.Contains(t, lines[1], "-", "missing mean renders as -")
	assert.NotContains(t, out, "\x1b[", "no color when not a terminal")
}

func TestSliceDiceSpit_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cli.Command{
		Flags: []cli.Flag{&cli.StringFlag{Name: "output"}},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return SliceDiceSpit([]byte(doc), nil, cmd, "columns", &buf)
		},
	}
	assert.Error(t, cmd.Run(context.Background(), []string{"x", "--output", "xml"}))
}

func TestDumpExamples(t *testing.T) {
	var buf bytes.Buffer
	DumpExamples(&buf, [][2]string{{"tabfeat route --input x", "show the output location"}})
	assert.Contains(t, buf.String(), "Command")
	assert.Contains(t, buf.String(), "show the output location")

	buf.Reset()
	DumpExamples(&buf, nil)
	assert.Empty(t, buf.String())
}
