package filter

import (
	"encoding/json"
	"testing"

	"github.com/zmcp/ga4-mcp/internal/normalize"
)

func mustJSON(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return m
}

func TestBuildStringFilter(t *testing.T) {
	node := mustJSON(t, `{
		"filter": {
			"field_name": "eventName",
			"string_filter": {"match_type": "BEGINS_WITH", "value": "add"}
		}
	}`)

	expr, err := Build(node)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if expr.Filter == nil {
		t.Fatal("expected a leaf filter")
	}
	if expr.Filter.FieldName != "eventName" {
		t.Errorf("FieldName = %q", expr.Filter.FieldName)
	}
	sf := expr.Filter.StringFilter
	if sf == nil || sf.MatchType != "BEGINS_WITH" || sf.Value != "add" || sf.CaseSensitive {
		t.Errorf("StringFilter = %+v", sf)
	}
}

func TestBuildStringFilterDefaults(t *testing.T) {
	node := mustJSON(t, `{
		"filter": {
			"field_name": "country",
			"string_filter": {"value": "Japan"}
		}
	}`)

	expr, err := Build(node)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if expr.Filter.StringFilter.MatchType != "EXACT" {
		t.Errorf("default match_type = %q, want EXACT", expr.Filter.StringFilter.MatchType)
	}
}

func TestBuildNumericFilter(t *testing.T) {
	node := mustJSON(t, `{
		"filter": {
			"field_name": "eventCount",
			"numeric_filter": {
				"operation": "GREATER_THAN",
				"value": {"int64_value": 100}
			}
		}
	}`)

	expr, err := Build(node)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	nf := expr.Filter.NumericFilter
	if nf == nil || nf.Operation != "GREATER_THAN" {
		t.Fatalf("NumericFilter = %+v", nf)
	}
	if nf.Value.Int64Value != "100" || nf.Value.DoubleValue != nil {
		t.Errorf("NumericValue = %+v", nf.Value)
	}
}

func TestBuildNumericValueVariants(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantInt   string
		wantFloat float64
		isDouble  bool
		wantErr   bool
	}{
		{name: "int64 as string", raw: `{"int64_value": "250"}`, wantInt: "250"},
		{name: "int64 as number", raw: `{"int64_value": 250}`, wantInt: "250"},
		{name: "double", raw: `{"double_value": 10.5}`, isDouble: true, wantFloat: 10.5},
		{name: "double as string", raw: `{"double_value": "10.5"}`, isDouble: true, wantFloat: 10.5},
		{name: "neither", raw: `{}`, wantErr: true},
		{name: "bad int64", raw: `{"int64_value": "ten"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nv, err := buildNumericValue(mustJSON(t, tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.isDouble {
				if nv.DoubleValue == nil || *nv.DoubleValue != tt.wantFloat {
					t.Errorf("DoubleValue = %v", nv.DoubleValue)
				}
			} else if nv.Int64Value != tt.wantInt {
				t.Errorf("Int64Value = %q, want %q", nv.Int64Value, tt.wantInt)
			}
		})
	}
}

func TestBuildBetweenFilter(t *testing.T) {
	node := mustJSON(t, `{
		"filter": {
			"field_name": "purchaseRevenue",
			"between_filter": {
				"from_value": {"double_value": 10.0},
				"to_value": {"double_value": 25.0}
			}
		}
	}`)

	expr, err := Build(node)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	bf := expr.Filter.BetweenFilter
	if bf == nil || *bf.FromValue.DoubleValue != 10.0 || *bf.ToValue.DoubleValue != 25.0 {
		t.Errorf("BetweenFilter = %+v", bf)
	}
}

func TestBuildInListFilter(t *testing.T) {
	node := mustJSON(t, `{
		"filter": {
			"field_name": "eventName",
			"in_list_filter": {
				"values": ["first_visit", "purchase"],
				"case_sensitive": true
			}
		}
	}`)

	expr, err := Build(node)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	ilf := expr.Filter.InListFilter
	if ilf == nil || len(ilf.Values) != 2 || !ilf.CaseSensitive {
		t.Errorf("InListFilter = %+v", ilf)
	}
}

func TestBuildNestedGroups(t *testing.T) {
	node := mustJSON(t, `{
		"and_group": {
			"expressions": [
				{"filter": {"field_name": "eventName", "string_filter": {"value": "page_view"}}},
				{"not_expression": {
					"filter": {"field_name": "source", "empty_filter": {}}
				}}
			]
		}
	}`)

	expr, err := Build(node)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if expr.AndGroup == nil || len(expr.AndGroup.Expressions) != 2 {
		t.Fatalf("AndGroup = %+v", expr.AndGroup)
	}
	if expr.AndGroup.Expressions[1].NotExpression == nil {
		t.Error("expected a not_expression operand")
	}
	if expr.AndGroup.Expressions[1].NotExpression.Filter.EmptyFilter == nil {
		t.Error("expected an empty_filter leaf")
	}
}

func TestBuildOrGroupListForm(t *testing.T) {
	node := mustJSON(t, `{
		"or_group": [
			{"filter": {"field_name": "country", "string_filter": {"value": "Japan"}}},
			{"filter": {"field_name": "country", "string_filter": {"value": "France"}}}
		]
	}`)

	expr, err := Build(node)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if expr.OrGroup == nil || len(expr.OrGroup.Expressions) != 2 {
		t.Errorf("OrGroup = %+v", expr.OrGroup)
	}
}

func TestBuildInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no discriminator", `{"foo": 1}`},
		{"two discriminators", `{"filter": {"field_name": "a", "empty_filter": {}}, "not_expression": {}}`},
		{"empty node", `{}`},
		{"empty group", `{"and_group": {"expressions": []}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(mustJSON(t, tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*normalize.InvalidArgumentError); !ok {
				t.Errorf("error type = %T", err)
			}
			if err.Error() != "Invalid filter configuration" {
				t.Errorf("error message = %q", err.Error())
			}
		})
	}
}

func TestBuildUnknownEnumTokens(t *testing.T) {
	_, err := Build(mustJSON(t, `{
		"filter": {
			"field_name": "eventName",
			"string_filter": {"match_type": "FUZZY", "value": "x"}
		}
	}`))
	if err == nil || err.Error() != "unknown match_type: FUZZY" {
		t.Errorf("err = %v", err)
	}

	_, err = Build(mustJSON(t, `{
		"filter": {
			"field_name": "eventCount",
			"numeric_filter": {"operation": "APPROX", "value": {"int64_value": 1}}
		}
	}`))
	if err == nil || err.Error() != "unknown operation: APPROX" {
		t.Errorf("err = %v", err)
	}
}

func TestBuildMissingFieldName(t *testing.T) {
	_, err := Build(mustJSON(t, `{"filter": {"string_filter": {"value": "x"}}}`))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildWireShape(t *testing.T) {
	node := mustJSON(t, `{
		"filter": {
			"field_name": "eventCount",
			"numeric_filter": {"operation": "EQUAL", "value": {"int64_value": 5}}
		}
	}`)

	expr, err := Build(node)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	data, err := json.Marshal(expr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"filter":{"fieldName":"eventCount","numericFilter":{"operation":"EQUAL","value":{"int64Value":"5"}}}}`
	if string(data) != want {
		t.Errorf("wire JSON = %s, want %s", data, want)
	}
}
