// Package jsonutil reads loosely typed JSON from the remote recommendation
// services, which are not consistent about strings versus numbers.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexibleStringValue converts a json.RawMessage to a string, accepting
// numbers and booleans in place of strings. Null, empty, objects and arrays
// yield "".
func FlexibleStringValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal json.Number
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if i, err := numVal.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := numVal.Float64(); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return numVal.String()
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	return ""
}

// FlexibleIntValue reads an integer from a number or a numeric string,
// rounding fractions to the nearest integer. ok is false when the value is
// missing or not numeric.
func FlexibleIntValue(raw json.RawMessage) (value int, ok bool) {
	s := strings.TrimSpace(FlexibleStringValue(raw))
	if s == "" {
		return 0, false
	}
	s = strings.TrimSuffix(s, "%")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(math.Round(f)), true
}

// FlexibleStringSlice reads a list of strings. A bare scalar becomes a
// one-element list; empty and structured elements are dropped.
func FlexibleStringSlice(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := strings.TrimSpace(FlexibleStringValue(raw)); s != "" {
			return []string{s}
		}
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(FlexibleStringValue(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
