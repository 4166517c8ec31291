// Package normalize converts loosely-typed tool arguments into the shapes
// the GA4 request builders expect. LLM callers routinely send lists and
// mappings as JSON-encoded strings and mix camelCase with snake_case keys;
// everything here is tolerant on input and strict on output.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvalidArgumentError marks a structural mistake in caller-supplied
// arguments, as opposed to an upstream API rejection.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// InvalidArgumentf builds an InvalidArgumentError with a formatted message
func InvalidArgumentf(format string, args ...interface{}) error {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}

// filterKeyCasing maps the camelCase filter vocabulary of the GA4 REST API
// to the snake_case vocabulary the tool inputs use.
var filterKeyCasing = map[string]string{
	"fieldName":     "field_name",
	"matchType":     "match_type",
	"caseSensitive": "case_sensitive",
	"int64Value":    "int64_value",
	"doubleValue":   "double_value",
	"fromValue":     "from_value",
	"toValue":       "to_value",
	"stringFilter":  "string_filter",
	"numericFilter": "numeric_filter",
	"betweenFilter": "between_filter",
	"inListFilter":  "in_list_filter",
	"andGroup":      "and_group",
	"orGroup":       "or_group",
	"notExpression": "not_expression",
}

// List coerces a value into a slice. A nil value stays nil, a slice passes
// through, a string is first tried as a JSON array, and anything else is
// wrapped as a single-element slice.
func List(value interface{}) []interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "[") {
			var parsed []interface{}
			if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
				return parsed
			}
		}
		return []interface{}{v}
	default:
		return []interface{}{v}
	}
}

// Mapping coerces a value into a map. A nil value stays nil, a map passes
// through, a string must be a JSON object. Anything else is an
// InvalidArgumentError.
func Mapping(value interface{}) (map[string]interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return v, nil
	case string:
		var parsed interface{}
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, InvalidArgumentf("invalid JSON in mapping parameter: %v", err)
		}
		m, ok := parsed.(map[string]interface{})
		if !ok {
			return nil, InvalidArgumentf("expected a JSON object, got %T", parsed)
		}
		return m, nil
	default:
		return nil, InvalidArgumentf("expected a mapping, got %T", value)
	}
}

// KeyCasing recursively rewrites camelCase filter keys to snake_case.
// Unknown keys and snake_case keys pass through unchanged, so applying it
// twice is a no-op. The input is never mutated.
func KeyCasing(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			if mapped, ok := filterKeyCasing[key]; ok {
				key = mapped
			}
			out[key] = KeyCasing(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = KeyCasing(item)
		}
		return out
	default:
		return value
	}
}

// ResourcePath prefixes a bare identifier with a collection name, leaving
// already-qualified names alone: ("213025502", "properties") and
// ("properties/213025502", "properties") both yield "properties/213025502".
func ResourcePath(id, prefix string) string {
	if strings.HasPrefix(id, prefix+"/") {
		return id
	}
	return prefix + "/" + id
}

// ParseRelativeDate resolves relative date tokens ("today", "yesterday",
// "NdaysAgo", "NmonthsAgo") to YYYY-MM-DD as of now. Months are
// approximated as 30 days. Matching is case-insensitive; anything
// unrecognized passes through untouched for the API to interpret.
func ParseRelativeDate(value string, now time.Time) string {
	lower := strings.ToLower(strings.TrimSpace(value))

	switch lower {
	case "today":
		return now.Format("2006-01-02")
	case "yesterday":
		return now.AddDate(0, 0, -1).Format("2006-01-02")
	}

	if n, ok := trimSuffixInt(lower, "daysago"); ok {
		return now.AddDate(0, 0, -n).Format("2006-01-02")
	}
	if n, ok := trimSuffixInt(lower, "monthsago"); ok {
		return now.AddDate(0, 0, -n*30).Format("2006-01-02")
	}
	if n, ok := trimSuffixInt(lower, "monthago"); ok {
		return now.AddDate(0, 0, -n*30).Format("2006-01-02")
	}

	return value
}

func trimSuffixInt(s, suffix string) (int, bool) {
	if !strings.HasSuffix(s, suffix) {
		return 0, false
	}
	numPart := strings.TrimSuffix(s, suffix)
	if numPart == "" {
		return 0, false
	}
	n, err := strconv.Atoi(numPart)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
