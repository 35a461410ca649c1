// Package record holds the loosely typed incident record the engine reads from.
//
// A Record is whatever the data-access layer decoded: field names and value
// types vary between sources, so every accessor here is total and reports
// absence instead of failing.
package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"incidash/internal/jalali"
)

// Record maps field names to raw values (string, number, bool, time.Time or nil).
type Record map[string]any

// Has reports whether key holds a non-empty value.
func (r Record) Has(key string) bool {
	return !IsEmpty(r[key])
}

// Value returns the raw value for key and whether it is non-empty.
func (r Record) Value(key string) (any, bool) {
	v, ok := r[key]
	if !ok || IsEmpty(v) {
		return nil, false
	}
	return v, true
}

// String returns the value for key rendered as a string ("" when absent).
func (r Record) String(key string) string {
	return AsString(r[key])
}

// FirstString returns the first non-empty string among keys.
func (r Record) FirstString(keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(r.String(k)); s != "" {
			return s
		}
	}
	return ""
}

// Int returns the integral numeric value for key.
// Strings are accepted when they hold a number in any digit script.
func (r Record) Int(key string) (int, bool) {
	return AsInt(r[key])
}

// IsEmpty mirrors the truthiness check applied to raw record values:
// nil, empty strings, zero numbers and false count as empty.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0 || math.IsNaN(val)
	case int:
		return val == 0
	case int64:
		return val == 0
	case json.Number:
		return val == "" || val == "0"
	case time.Time:
		return val.IsZero()
	default:
		return false
	}
}

// AsString renders a raw value as a string.
func AsString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// AsInt converts a raw value to an integer when it holds a whole number.
func AsInt(v any) (int, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return floatToInt(val)
	case json.Number:
		return parseInt(val.String())
	case string:
		return parseInt(val)
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(jalali.NormalizeDigits(s))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return floatToInt(f)
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
