// Package filter turns loosely-typed filter trees from tool arguments into
// Data API FilterExpression values. Construction is atomic: any invalid
// node fails the whole build.
package filter

import (
	"fmt"
	"strconv"

	"github.com/zmcp/ga4-mcp/internal/constants"
	"github.com/zmcp/ga4-mcp/internal/ga4"
	"github.com/zmcp/ga4-mcp/internal/normalize"
)

// Build constructs a FilterExpression from a snake_case filter node.
// Exactly one of filter / and_group / or_group / not_expression must be
// present at every level.
func Build(node map[string]interface{}) (*ga4.FilterExpression, error) {
	if node == nil {
		return nil, normalize.InvalidArgumentf(constants.ErrInvalidFilterConfig)
	}

	var keys []string
	for _, key := range []string{"filter", "and_group", "or_group", "not_expression"} {
		if _, ok := node[key]; ok {
			keys = append(keys, key)
		}
	}
	if len(keys) != 1 {
		return nil, normalize.InvalidArgumentf(constants.ErrInvalidFilterConfig)
	}

	switch keys[0] {
	case "and_group":
		expressions, err := buildGroup(node["and_group"])
		if err != nil {
			return nil, err
		}
		return &ga4.FilterExpression{AndGroup: &ga4.FilterExpressionList{Expressions: expressions}}, nil

	case "or_group":
		expressions, err := buildGroup(node["or_group"])
		if err != nil {
			return nil, err
		}
		return &ga4.FilterExpression{OrGroup: &ga4.FilterExpressionList{Expressions: expressions}}, nil

	case "not_expression":
		inner, err := normalize.Mapping(node["not_expression"])
		if err != nil {
			return nil, err
		}
		expr, err := Build(inner)
		if err != nil {
			return nil, err
		}
		return &ga4.FilterExpression{NotExpression: expr}, nil

	default: // "filter"
		leaf, err := normalize.Mapping(node["filter"])
		if err != nil {
			return nil, err
		}
		f, err := buildLeaf(leaf)
		if err != nil {
			return nil, err
		}
		return &ga4.FilterExpression{Filter: f}, nil
	}
}

// buildGroup resolves the operand list of an and_group/or_group. The value
// may be the expressions list itself or a mapping holding one.
func buildGroup(value interface{}) ([]*ga4.FilterExpression, error) {
	var items []interface{}
	switch v := value.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		items = normalize.List(v["expressions"])
	default:
		return nil, normalize.InvalidArgumentf(constants.ErrInvalidFilterConfig)
	}
	if len(items) == 0 {
		return nil, normalize.InvalidArgumentf(constants.ErrInvalidFilterConfig)
	}

	expressions := make([]*ga4.FilterExpression, 0, len(items))
	for _, item := range items {
		m, err := normalize.Mapping(item)
		if err != nil {
			return nil, err
		}
		expr, err := Build(m)
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expr)
	}
	return expressions, nil
}

// buildLeaf constructs a single-field predicate
func buildLeaf(leaf map[string]interface{}) (*ga4.Filter, error) {
	if leaf == nil {
		return nil, normalize.InvalidArgumentf(constants.ErrInvalidFilterConfig)
	}

	fieldName, _ := leaf["field_name"].(string)
	if fieldName == "" {
		return nil, normalize.InvalidArgumentf("filter is missing field_name")
	}
	f := &ga4.Filter{FieldName: fieldName}

	switch {
	case leaf["string_filter"] != nil:
		spec, err := normalize.Mapping(leaf["string_filter"])
		if err != nil {
			return nil, err
		}
		sf, err := buildStringFilter(spec)
		if err != nil {
			return nil, err
		}
		f.StringFilter = sf

	case leaf["numeric_filter"] != nil:
		spec, err := normalize.Mapping(leaf["numeric_filter"])
		if err != nil {
			return nil, err
		}
		nf, err := buildNumericFilter(spec)
		if err != nil {
			return nil, err
		}
		f.NumericFilter = nf

	case leaf["between_filter"] != nil:
		spec, err := normalize.Mapping(leaf["between_filter"])
		if err != nil {
			return nil, err
		}
		bf, err := buildBetweenFilter(spec)
		if err != nil {
			return nil, err
		}
		f.BetweenFilter = bf

	case leaf["in_list_filter"] != nil:
		spec, err := normalize.Mapping(leaf["in_list_filter"])
		if err != nil {
			return nil, err
		}
		f.InListFilter = buildInListFilter(spec)

	case leaf["empty_filter"] != nil:
		f.EmptyFilter = &ga4.EmptyFilter{}

	default:
		return nil, normalize.InvalidArgumentf("filter for %q has no predicate", fieldName)
	}

	return f, nil
}

func buildStringFilter(spec map[string]interface{}) (*ga4.StringFilter, error) {
	matchType := "EXACT"
	if mt, ok := spec["match_type"].(string); ok && mt != "" {
		matchType = mt
	}
	if !constants.StringMatchTypes[matchType] {
		return nil, normalize.InvalidArgumentf("unknown match_type: %s", matchType)
	}

	value := fmt.Sprintf("%v", spec["value"])
	if spec["value"] == nil {
		value = ""
	}

	caseSensitive, _ := spec["case_sensitive"].(bool)
	return &ga4.StringFilter{
		MatchType:     matchType,
		Value:         value,
		CaseSensitive: caseSensitive,
	}, nil
}

func buildNumericFilter(spec map[string]interface{}) (*ga4.NumericFilter, error) {
	operation, _ := spec["operation"].(string)
	if !constants.NumericOperations[operation] {
		return nil, normalize.InvalidArgumentf("unknown operation: %s", operation)
	}

	value, err := normalize.Mapping(spec["value"])
	if err != nil {
		return nil, err
	}
	numeric, err := buildNumericValue(value)
	if err != nil {
		return nil, err
	}

	return &ga4.NumericFilter{Operation: operation, Value: numeric}, nil
}

func buildBetweenFilter(spec map[string]interface{}) (*ga4.BetweenFilter, error) {
	from, err := normalize.Mapping(spec["from_value"])
	if err != nil {
		return nil, err
	}
	to, err := normalize.Mapping(spec["to_value"])
	if err != nil {
		return nil, err
	}

	fromValue, err := buildNumericValue(from)
	if err != nil {
		return nil, err
	}
	toValue, err := buildNumericValue(to)
	if err != nil {
		return nil, err
	}

	return &ga4.BetweenFilter{FromValue: fromValue, ToValue: toValue}, nil
}

func buildInListFilter(spec map[string]interface{}) *ga4.InListFilter {
	items := normalize.List(spec["values"])
	values := make([]string, 0, len(items))
	for _, item := range items {
		values = append(values, fmt.Sprintf("%v", item))
	}
	caseSensitive, _ := spec["case_sensitive"].(bool)
	return &ga4.InListFilter{Values: values, CaseSensitive: caseSensitive}
}

// buildNumericValue picks int64 vs double by which key is present.
// int64_value tolerates both JSON numbers and strings.
func buildNumericValue(spec map[string]interface{}) (*ga4.NumericValue, error) {
	if spec == nil {
		return nil, normalize.InvalidArgumentf("numeric value requires int64_value or double_value")
	}

	if raw, ok := spec["int64_value"]; ok {
		switch v := raw.(type) {
		case string:
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				return nil, normalize.InvalidArgumentf("invalid int64_value: %v", raw)
			}
			return &ga4.NumericValue{Int64Value: v}, nil
		case float64:
			return &ga4.NumericValue{Int64Value: strconv.FormatInt(int64(v), 10)}, nil
		case int:
			return &ga4.NumericValue{Int64Value: strconv.Itoa(v)}, nil
		case int64:
			return &ga4.NumericValue{Int64Value: strconv.FormatInt(v, 10)}, nil
		default:
			return nil, normalize.InvalidArgumentf("invalid int64_value: %v", raw)
		}
	}

	if raw, ok := spec["double_value"]; ok {
		switch v := raw.(type) {
		case float64:
			return &ga4.NumericValue{DoubleValue: &v}, nil
		case string:
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, normalize.InvalidArgumentf("invalid double_value: %v", raw)
			}
			return &ga4.NumericValue{DoubleValue: &parsed}, nil
		default:
			return nil, normalize.InvalidArgumentf("invalid double_value: %v", raw)
		}
	}

	return nil, normalize.InvalidArgumentf("numeric value requires int64_value or double_value")
}
