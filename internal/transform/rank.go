// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"fmt"
	"sort"
)

// RankMethod selects how ties are ranked.
type RankMethod string

const (
	// RankDense gives tied values the same rank and leaves no gaps.
	RankDense RankMethod = "dense"
	// RankAverage gives tied values the mean of the ordinal ranks they span.
	RankAverage RankMethod = "average"
)

// ParseRankMethod maps a configuration value to a RankMethod. Empty means
// RankDense.
func ParseRankMethod(s string) (RankMethod, error) {
	switch RankMethod(s) {
	case "", RankDense:
		return RankDense, nil
	case RankAverage:
		return RankAverage, nil
	default:
		return "", fmt.Errorf("unknown rank method %q (want %s or %s)", s, RankDense, RankAverage)
	}
}

// Rank returns 1-based ranks of values in ascending order.
func Rank(values []float64, method RankMethod) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, len(values))
	dense := 0
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && values[order[end]] == values[order[start]] {
			end++
		}
		dense++

		var r float64
		switch method {
		case RankAverage:
			// Ordinal ranks start+1 .. end averaged.
			r = float64(start+1+end) / 2
		default:
			r = float64(dense)
		}
		for _, idx := range order[start:end] {
			ranks[idx] = r
		}
		start = end
	}
	return ranks
}
