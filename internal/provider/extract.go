// Package provider holds helpers shared by upstream provider clients.
package provider

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ExtractScore normalizes a judge score from the shapes competitionsuite has
// been seen to return.
//
// Scores usually arrive as JSON numbers, but older recaps carry them as
// strings ("9.45") and some exports wrap them as {"Score": 9.45} or
// {"value": 9.45}. This handles all of them.
//
// Returns ok=false for null, empty, non-numeric or non-finite values.
func ExtractScore(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var val interface{}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&val); err != nil {
		return 0, false
	}
	return extractValue(val)
}

func extractValue(val interface{}) (float64, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case json.Number:
		f, err := v.Float64()
		return finite(f, err)
	case float64:
		return finite(v, nil)
	case string:
		return finite(strconv.ParseFloat(strings.TrimSpace(v), 64))
	case map[string]interface{}:
		for _, key := range []string{"Score", "score", "value", "Value"} {
			if inner, exists := v[key]; exists && inner != nil {
				return extractValue(inner)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// finite rejects parse failures and NaN or infinite scores.
func finite(f float64, err error) (float64, bool) {
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
