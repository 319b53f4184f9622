package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The evaluators accept answer values as they come out of JSON or BSON
// decoding (string, bool, float64, []any, primitive.A, ...). The three view
// functions below are total: they never panic and signal a failed conversion
// with an empty result or nil.

// answerAsArray wraps a scalar value into a single element slice.
func answerAsArray(v any) []any {
	switch val := v.(type) {
	case nil:
		return []any{}
	case []any:
		return val
	case primitive.A:
		return []any(val)
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

// answerAsLowerString casts the value to its lower-cased string form, absent
// values become the empty string.
func answerAsLowerString(v any) string {
	return strings.ToLower(stringify(v))
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// answerAsNumber casts the value to a float, returning nil for absent values,
// empty strings and anything that does not parse to a finite number.
func answerAsNumber(v any) *float64 {
	var n float64
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		n = val
	case float32:
		n = float64(val)
	case int:
		n = float64(val)
	case int32:
		n = float64(val)
	case int64:
		n = float64(val)
	case bool:
		if val {
			n = 1
		}
	case string:
		if val == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// asTruthy is the boolean cast used for non-condition showIf values.
func asTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	default:
		if n := answerAsNumber(v); n != nil {
			return *n != 0
		}
		return false
	}
}
