// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/tabfeat/internal/attrs"
)

// filterRegex is the pattern used to parse filter expressions into key,
// operator, and target components. Operators are one of = ^ ~ < > >= <= @ or
// /, optionally prefixed with '!'.
var filterRegex = regexp.MustCompile(`^(.*?)(!?(?:>=|<=|[=^~<>@/]))(.*)$`)

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs are logged and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("TABFEAT_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil || parts[1] == "" {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(parts[2], "!")
		filters = append(filters, Filter{
			Key:     strings.TrimSpace(parts[1]),
			Negate:  negate,
			Operand: strings.TrimPrefix(parts[2], "!"),
			Target:  parts[3],
		})
	}

	return filters
}

// FilterDataset returns the rows of candidates, a JSON array, that pass every
// filter in spec. Each row holds one entry per attr, keyed by OutputKey.
func FilterDataset(candidates gjson.Result, attrs attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var filteredResults []map[string]interface{}

	filters := BuildFilters(spec)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, attrs, filters) {
			continue
		}

		// Transform is deferred to the output phase; this only selects.
		result := make(map[string]interface{})
		for _, attr := range attrs {
			result[attr.OutputKey] = candidate.Get(attr.Key).Value()
		}
		filteredResults = append(filteredResults, result)
	}

	return filteredResults
}

// applyFilters returns true if the candidate row matches all of the provided
// filters. Filters on keys that no attr provides are reported and ignored.
func applyFilters(candidate gjson.Result, attrs attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		var key string
		for _, attr := range attrs {
			if attr.OutputKey == filter.Key {
				key = attr.Key
				break
			}
		}

		if key == "" {
			msg := fmt.Sprintf("filter key not found: %s", filter.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		// Rows without the value never match.
		value := candidate.Get(key).Value()
		if value == nil {
			return false
		}

		result := true
		switch v := value.(type) {
		case string:
			result = checkStringOperand(v, filter)
		case bool:
			result = checkStringOperand(strconv.FormatBool(v), filter)
		case float64:
			result = checkNumericOperand(v, filter)
		default:
			if filter.Operand == "@" {
				result = checkContainsOperand(value, filter)
			}
		}

		if !result {
			return false
		}
	}

	return true
}

// checkContainsOperand evaluates a membership style filter (operand '@')
// against slice or map values.
func checkContainsOperand(value interface{}, filter Filter) bool {
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if fmt.Sprint(item) == filter.Target {
				return !filter.Negate
			}
		}
		return filter.Negate
	case map[string]any:
		_, found := val[filter.Target]
		return found == !filter.Negate
	default:
		log.Error(fmt.Sprintf("unsupported type for contains filtering: %T", value))
		return false
	}
}

var numericOps = map[string]func(v, t float64) bool{
	"=":  func(v, t float64) bool { return v == t },
	">":  func(v, t float64) bool { return v > t },
	"<":  func(v, t float64) bool { return v < t },
	">=": func(v, t float64) bool { return v >= t },
	"<=": func(v, t float64) bool { return v <= t },
}

var stringOps = map[string]func(v, t string) (bool, error){
	"=":  func(v, t string) (bool, error) { return v == t, nil },
	"~":  func(v, t string) (bool, error) { return strings.EqualFold(v, t), nil },
	"^":  func(v, t string) (bool, error) { return strings.HasPrefix(v, t), nil },
	">":  func(v, t string) (bool, error) { return v > t, nil },
	"<":  func(v, t string) (bool, error) { return v < t, nil },
	">=": func(v, t string) (bool, error) { return v >= t, nil },
	"<=": func(v, t string) (bool, error) { return v <= t, nil },
	"@":  func(v, t string) (bool, error) { return strings.Contains(v, t), nil },
	"/":  regexp.MatchString,
}

// checkNumericOperand compares a numeric value against the filter target.
// Operands = > < >= <= are supported; ~ ^ @ / fall back to the string form of
// the number.
func checkNumericOperand(value float64, filter Filter) bool {
	cmp, ok := numericOps[filter.Operand]
	if !ok {
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + filter.Target)
		return false
	}
	return cmp(value, tgt) == !filter.Negate
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value.
func checkStringOperand(value string, filter Filter) bool {
	cmp, ok := stringOps[filter.Operand]
	if !ok {
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
	matched, err := cmp(value, filter.Target)
	if err != nil {
		log.Error("invalid regex: " + filter.Target)
		return false
	}
	return matched == !filter.Negate
}
