// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package profile

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/tabfeat/internal/frame"
)

func TestOf(t *testing.T) {
	f, err := frame.ReadCSV(strings.NewReader("country;price;empty\nUS;10;\nFrance;;\nUS;30;\nItaly;20;\n"), frame.ReadOptions{})
	require.NoError(t, err)

	cols := Of(f)
	require.Len(t, cols, 3)

	country := cols[0]
	assert.Equal(t, "country", country.Name)
	assert.Equal(t, "string", country.Kind)
	assert.Equal(t, 4, country.Count)
	assert.Equal(t, 3, country.Distinct)
	assert.Equal(t, "US", country.Top)
	assert.Equal(t, 2, country.TopCount)
	assert.Nil(t, country.Mean)

	price := cols[1]
	assert.Equal(t, 1, price.Position)
	assert.Equal(t, 3, price.Count)
	assert.Equal(t, 1, price.Missing)
	require.NotNil(t, price.Mean)
	assert.Equal(t, 10.0, *price.Min)
	assert.Equal(t, 30.0, *price.Max)
	assert.Equal(t, 20.0, *price.Mean)
	assert.InDelta(t, 10.0, *price.StdDev, 1e-12)

	empty := cols[2]
	assert.Equal(t, 0, empty.Count)
	assert.Nil(t, empty.Min)
}

func TestOf_JSON(t *testing.T) {
	f, err := frame.ReadCSV(strings.NewReader("a;b\n1;x\n"), frame.ReadOptions{})
	require.NoError(t, err)

	b, err := json.Marshal(Of(f))
	require.NoError(t, err)

	doc := gjson.ParseBytes(b)
	assert.Equal(t, int64(2), doc.Get("#").Int())
	assert.Equal(t, 0.0, doc.Get(`#(name=="a").stddev`).Float())
	assert.False(t, doc.Get(`#(name=="b").mean`).Exists())
	assert.Equal(t, "x", doc.Get(`#(name=="b").top`).String())
}
