package request

import (
	"encoding"
	"fmt"
	"strings"
)

// FormatQuery normalizes a parameter map to string values. Nil values
// are omitted; string slices are joined with commas (the convention
// the Twitter API uses for list-valued parameters such as
// tweet.fields); scalars are stringified.
func FormatQuery(query map[string]any) (map[string]string, error) {
	if len(query) == 0 {
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(query))
	for k, v := range query {
		if v == nil {
			continue
		}
		s, err := formatValue(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

// mergeForSignature unions query and body parameters for OAuth1
// signing. Body keys win on collision.
func mergeForSignature(query, body map[string]string) map[string]string {
	merged := make(map[string]string, len(query)+len(body))
	for k, v := range query {
		merged[k] = v
	}
	for k, v := range body {
		merged[k] = v
	}
	return merged
}

// TrimNil returns body without its nil-valued keys. The input map is
// not modified. Trimming is idempotent.
func TrimNil(body map[string]any) map[string]any {
	if body == nil {
		return nil
	}
	out := make(map[string]any, len(body))
	for k, v := range body {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// formatValue stringifies a single query or form value.
func formatValue(key string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []string:
		return strings.Join(val, ","), nil
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(val), nil
	case encoding.TextMarshaler:
		b, err := val.MarshalText()
		if err != nil {
			return "", fmt.Errorf("marshal parameter %q: %w", key, err)
		}
		return string(b), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		return "", fmt.Errorf("unsupported type %T for parameter %q", v, key)
	}
}
