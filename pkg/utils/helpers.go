package utils

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ParseValue converts a raw cell into an int, a float64 or a trimmed string.
func ParseValue(s string) interface{} {
	// Trim whitespace first
	s = strings.TrimSpace(s)

	// try int
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Numeric safely converts supported types to float64, returning 0 otherwise.
func Numeric(v interface{}) float64 {
	f, _ := ToFloat(v)
	return f
}

// ToFloat converts numeric values (and numeric strings) to float64.
func ToFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case []byte:
		return ToFloat(string(val))
	case nil:
		return 0, false
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Float64 {
			return rv.Convert(reflect.TypeOf(float64(0))).Float(), true
		}
		return 0, false
	}
}

// IsInteger reports whether f has no fractional part.
func IsInteger(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
}

// StringValue renders a cell as text; numbers parsed by ParseValue are
// formatted back without a trailing ".0".
func StringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
