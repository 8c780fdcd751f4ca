// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package transform

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/tabfeat/internal/frame"
)

// wines is a small slice of the wine reviews layout. Row 2 has no country and
// row 3 has no points, so both are dropped by the cleaning stages.
const wines = `;country;designation;points;price;province;region_1;region_2;variety;winery
0;US;Reserve;90;10;CA;Napa;;Red;A
1;France;;85;;Bordeaux;;;Red;B
2;;Reserve;88;50;X;;;White;A
3;US;Estate;;30;CA;;;White;C
4;Italy;Estate;92;40;Tuscany;;;Red;A
5;US;Reserve;80;;CA;;;White;A
`

func load(t *testing.T, doc string) *frame.Frame {
	t.Helper()
	f, err := frame.ReadCSV(strings.NewReader(doc), frame.ReadOptions{})
	require.NoError(t, err)
	return f
}

func floatsOf(t *testing.T, f *frame.Frame, name string) []float64 {
	t.Helper()
	col, err := f.Column(name)
	require.NoError(t, err)
	values, err := col.Floats()
	require.NoError(t, err)
	return values
}

func winePipeline() *Pipeline {
	return NewPipeline(
		ImputeMean{Column: "price"},
		ImputeConstant{Column: "designation", Value: "Reserve"},
		DropColumns{Columns: []string{"province", "region_1", "region_2"}},
		DropMissing{Columns: []string{"country"}},
		DropMissing{Columns: []string{"points"}},
		FrequencyRank{Column: "designation", Output: "designation_freq"},
		FrequencyRank{Column: "winery", Output: "winery_freq"},
		TargetEncode{Column: "variety", Target: "price", Output: "variety_transformed",
			MinSamplesLeaf: DefaultMinSamplesLeaf, Smoothing: DefaultSmoothing},
		DropColumns{Columns: []string{"designation", "variety", "winery"}},
		OneHot{Column: "country"},
		MinMaxScale{},
	)
}

func TestImputeMean_UsesEveryRowPresentAtTheTime(t *testing.T) {
	f := load(t, wines)
	out, err := ImputeMean{Column: "price"}.Apply(f)
	require.NoError(t, err)

	// 10, 50, 30 and 40 are present, including rows dropped later.
	assert.Equal(t, []float64{10, 32.5, 50, 30, 40, 32.5}, floatsOf(t, out, "price"))

	price, _ := f.Column("price")
	assert.True(t, price.IsNull(1), "input frame must be unchanged")
}

func TestImputeMean_Errors(t *testing.T) {
	f := load(t, wines)

	_, err := ImputeMean{Column: "country"}.Apply(f)
	assert.Error(t, err)

	_, err = ImputeMean{Column: "region_2"}.Apply(f)
	assert.Error(t, err)

	_, err = ImputeMean{Column: "nope"}.Apply(f)
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func TestImputeConstant(t *testing.T) {
	f := load(t, wines)

	out, err := ImputeConstant{Column: "designation", Value: "Reserve"}.Apply(f)
	require.NoError(t, err)
	col, _ := out.Column("designation")
	assert.Equal(t, 0, col.NullCount())
	assert.Equal(t, "Reserve", col.Str(1))

	out, err = ImputeConstant{Column: "points", Value: "0"}.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, 0.0, floatsOf(t, out, "points")[3])

	_, err = ImputeConstant{Column: "points", Value: "lots"}.Apply(f)
	assert.Error(t, err)
}

func TestDropMissing_RowWithoutCountryIsDroppedEvenWithPrice(t *testing.T) {
	f := load(t, "country;price;points\n;10;90\nUS;;91\n")
	out, err := DropMissing{Columns: []string{"country"}}.Apply(f)
	require.NoError(t, err)

	assert.Equal(t, 1, out.NumRows())
	country, _ := out.Column("country")
	assert.Equal(t, "US", country.Str(0))
}

func TestDropColumns_MissingColumnFails(t *testing.T) {
	f := load(t, wines)
	_, err := DropColumns{Columns: []string{"province", "taster_name"}}.Apply(f)
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func TestRank(t *testing.T) {
	values := []float64{3, 1, 2, 1}
	assert.Equal(t, []float64{3, 1, 2, 1}, Rank(values, RankDense))
	assert.Equal(t, []float64{4, 1.5, 3, 1.5}, Rank(values, RankAverage))
	assert.Empty(t, Rank(nil, RankDense))
}

func TestParseRankMethod(t *testing.T) {
	m, err := ParseRankMethod("")
	require.NoError(t, err)
	assert.Equal(t, RankDense, m)

	m, err = ParseRankMethod("average")
	require.NoError(t, err)
	assert.Equal(t, RankAverage, m)

	_, err = ParseRankMethod("ordinal")
	assert.Error(t, err)
}

func TestFrequencyRank(t *testing.T) {
	f := load(t, "cat\nA\nA\nB\nC\n")

	out, err := FrequencyRank{Column: "cat"}.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 1, 1}, floatsOf(t, out, "cat_freq"))

	out, err = FrequencyRank{Column: "cat", Output: "r", Method: RankAverage}.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{3.5, 3.5, 1.5, 1.5}, floatsOf(t, out, "r"))
}

func TestFrequencyRank_ImputedValuesShareTheOriginalRank(t *testing.T) {
	f := load(t, "designation\nReserve\n\nEstate\nReserve\nBarrel\n")

	imputed, err := ImputeConstant{Column: "designation", Value: "Reserve"}.Apply(f)
	require.NoError(t, err)
	out, err := FrequencyRank{Column: "designation"}.Apply(imputed)
	require.NoError(t, err)

	ranks := floatsOf(t, out, "designation_freq")
	assert.Equal(t, ranks[0], ranks[1])
	assert.Equal(t, ranks[0], ranks[3])
	assert.Greater(t, ranks[0], ranks[2])
}

func TestFrequencyRank_MissingValuesFail(t *testing.T) {
	f := load(t, "designation\nReserve\n\n")
	_, err := FrequencyRank{Column: "designation"}.Apply(f)
	assert.Error(t, err)
}

func TestTargetEncode(t *testing.T) {
	f := load(t, "variety;price\na;1\na;3\nb;8\n;4\n")

	out, err := TargetEncode{
		Column:         "variety",
		Target:         "price",
		MinSamplesLeaf: DefaultMinSamplesLeaf,
		Smoothing:      DefaultSmoothing,
	}.Apply(f)
	require.NoError(t, err)

	prior := 4.0
	w := 1 / (1 + math.Exp(-(2.0-DefaultMinSamplesLeaf)/DefaultSmoothing))
	want := prior*(1-w) + 2*w

	got := floatsOf(t, out, "variety_transformed")
	assert.InDelta(t, want, got[0], 1e-12)
	assert.Equal(t, got[0], got[1])
	// Single-occurrence and missing categories fall back to the prior.
	assert.Equal(t, prior, got[2])
	assert.Equal(t, prior, got[3])
}

func TestTargetEncode_Errors(t *testing.T) {
	f := load(t, "variety;price;name\na;1;x\na;;y\n")

	_, err := TargetEncode{Column: "variety", Target: "price", Smoothing: 10}.Apply(f)
	assert.Error(t, err, "missing target values")

	_, err = TargetEncode{Column: "variety", Target: "name", Smoothing: 10}.Apply(f)
	assert.Error(t, err, "non-numeric target")

	g := load(t, "variety;price\na;1\n")
	_, err = TargetEncode{Column: "variety", Target: "price"}.Apply(g)
	assert.Error(t, err, "zero smoothing")
}

func TestOneHot(t *testing.T) {
	f := load(t, "country;points\nUS;1\nFrance;2\nUS;3\nItaly;4\n")

	out, err := OneHot{Column: "country"}.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"points", "country_1", "country_2", "country_3"}, out.Names())
	assert.Equal(t, []float64{1, 0, 1, 0}, floatsOf(t, out, "country_1"))
	assert.Equal(t, []float64{0, 1, 0, 0}, floatsOf(t, out, "country_2"))
	assert.Equal(t, []float64{0, 0, 0, 1}, floatsOf(t, out, "country_3"))

	out, err = OneHot{Column: "country", UseNames: true}.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"points", "country_US", "country_France", "country_Italy"}, out.Names())
}

func TestOneHot_MissingValuesFail(t *testing.T) {
	f := load(t, "country;points\nUS;1\n;2\n")
	_, err := OneHot{Column: "country"}.Apply(f)
	assert.Error(t, err)
}

func TestMinMaxScale(t *testing.T) {
	f := load(t, "a;b;c\n2;5;1\n4;5;\n10;5;3\n")

	out, err := MinMaxScale{}.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25, 1}, floatsOf(t, out, "a"))
	assert.Equal(t, []float64{0, 0, 0}, floatsOf(t, out, "b"), "constant column maps to 0")

	c, _ := out.Column("c")
	assert.True(t, c.IsNull(1))
	assert.Equal(t, 0.0, c.Float(0))
	assert.Equal(t, 1.0, c.Float(2))

	out, err = MinMaxScale{Columns: []string{"a"}}.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5, 5}, floatsOf(t, out, "b"))
}

func TestMinMaxScale_EmptyColumnFails(t *testing.T) {
	f := load(t, "a;b\n1;\n2;\n")
	_, err := MinMaxScale{}.Apply(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b"`)

	out, err := MinMaxScale{Columns: []string{"a"}}.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, floatsOf(t, out, "a"))

	empty := load(t, "a;b\n")
	out, err = MinMaxScale{}.Apply(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, out.NumRows())
}

func TestMinMaxScale_StringColumnFails(t *testing.T) {
	f := load(t, "a;b\n1;x\n2;y\n")
	_, err := MinMaxScale{}.Apply(f)
	assert.Error(t, err)
}

func TestPipeline_WineProperties(t *testing.T) {
	in := load(t, wines)
	out, results, err := winePipeline().Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, results, 11)

	// Two rows are dropped: one without country, one without points.
	assert.Equal(t, in.NumRows()-2, out.NumRows())
	assert.Equal(t, 1, results[3].Dropped())
	assert.Equal(t, 1, results[4].Dropped())

	// Three distinct countries survive the drops.
	var indicators int
	for _, n := range out.Names() {
		if strings.HasPrefix(n, "country_") {
			indicators++
		}
	}
	assert.Equal(t, 3, indicators)

	// Every column is numeric and spans [0, 1] exactly.
	for _, c := range out.Columns() {
		values, err := c.Floats()
		require.NoError(t, err, c.Name())
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range values {
			assert.GreaterOrEqual(t, v, 0.0, c.Name())
			assert.LessOrEqual(t, v, 1.0, c.Name())
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		assert.Equal(t, 0.0, lo, c.Name())
		assert.Equal(t, 1.0, hi, c.Name())
	}

	assert.Equal(t, []float64{0, 0.75, 1, 0.75}, floatsOf(t, out, "price"))
	assert.Equal(t, []float64{1, 1, 0, 1}, floatsOf(t, out, "designation_freq"))
}

func TestPipeline_IsDeterministic(t *testing.T) {
	in := load(t, wines)
	var docs []string
	for i := 0; i < 2; i++ {
		out, _, err := winePipeline().Run(context.Background(), in)
		require.NoError(t, err)
		var sb strings.Builder
		require.NoError(t, frame.WriteCSV(&sb, out, frame.WriteOptions{}))
		docs = append(docs, sb.String())
	}
	assert.Equal(t, docs[0], docs[1])
}

func TestPipeline_StopsAtFirstFailure(t *testing.T) {
	in := load(t, wines)
	p := NewPipeline(
		DropColumns{Columns: []string{"province"}},
		DropColumns{Label: "second", Columns: []string{"province"}},
		MinMaxScale{},
	)
	_, results, err := p.Run(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage 2 (second)")
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
	assert.Len(t, results, 1)
}

func TestPipeline_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := winePipeline().Run(ctx, load(t, wines))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStageNames(t *testing.T) {
	assert.Equal(t, "impute_mean(price)", ImputeMean{Column: "price"}.Name())
	assert.Equal(t, "drop_columns(a,b)", DropColumns{Columns: []string{"a", "b"}}.Name())
	assert.Equal(t, "min_max_scale(*)", MinMaxScale{}.Name())
	assert.Equal(t, "custom", OneHot{Label: "custom", Column: "country"}.Name())
}
