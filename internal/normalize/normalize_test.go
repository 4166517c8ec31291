package normalize

import (
	"reflect"
	"testing"
	"time"
)

func TestList(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  []interface{}
	}{
		{"nil stays nil", nil, nil},
		{"slice passes through", []interface{}{"a", "b"}, []interface{}{"a", "b"}},
		{"json array string", `["activeUsers", "sessions"]`, []interface{}{"activeUsers", "sessions"}},
		{"plain string wrapped", "activeUsers", []interface{}{"activeUsers"}},
		{"malformed json wrapped", `["oops"`, []interface{}{`["oops"`}},
		{"scalar wrapped", 42.0, []interface{}{42.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := List(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMapping(t *testing.T) {
	got, err := Mapping(`{"field_name": "eventName"}`)
	if err != nil {
		t.Fatalf("Mapping returned error: %v", err)
	}
	if got["field_name"] != "eventName" {
		t.Errorf("Mapping parsed %v", got)
	}

	passthrough := map[string]interface{}{"a": 1.0}
	got, err = Mapping(passthrough)
	if err != nil {
		t.Fatalf("Mapping returned error: %v", err)
	}
	if !reflect.DeepEqual(got, passthrough) {
		t.Errorf("Mapping altered input: %v", got)
	}

	got, err = Mapping(nil)
	if err != nil || got != nil {
		t.Errorf("Mapping(nil) = %v, %v", got, err)
	}
}

func TestMappingErrors(t *testing.T) {
	for _, input := range []interface{}{"not json", `["a", "b"]`, 42.0} {
		_, err := Mapping(input)
		if err == nil {
			t.Errorf("Mapping(%v) expected error", input)
			continue
		}
		if _, ok := err.(*InvalidArgumentError); !ok {
			t.Errorf("Mapping(%v) error type = %T", input, err)
		}
	}
}

func TestKeyCasing(t *testing.T) {
	input := map[string]interface{}{
		"andGroup": map[string]interface{}{
			"expressions": []interface{}{
				map[string]interface{}{
					"filter": map[string]interface{}{
						"fieldName": "eventName",
						"stringFilter": map[string]interface{}{
							"matchType":     "EXACT",
							"value":         "page_view",
							"caseSensitive": true,
						},
					},
				},
			},
		},
	}

	want := map[string]interface{}{
		"and_group": map[string]interface{}{
			"expressions": []interface{}{
				map[string]interface{}{
					"filter": map[string]interface{}{
						"field_name": "eventName",
						"string_filter": map[string]interface{}{
							"match_type":     "EXACT",
							"value":          "page_view",
							"case_sensitive": true,
						},
					},
				},
			},
		},
	}

	got := KeyCasing(input)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeyCasing = %v, want %v", got, want)
	}

	// Applying it twice changes nothing
	again := KeyCasing(got)
	if !reflect.DeepEqual(again, want) {
		t.Errorf("KeyCasing not idempotent: %v", again)
	}

	// Input is not mutated
	if _, ok := input["andGroup"]; !ok {
		t.Error("KeyCasing mutated its input")
	}
}

func TestKeyCasingLeavesValuesAlone(t *testing.T) {
	input := map[string]interface{}{
		"filter": map[string]interface{}{
			"field_name": "fieldName", // value happens to look like a key
		},
	}
	got := KeyCasing(input).(map[string]interface{})
	leaf := got["filter"].(map[string]interface{})
	if leaf["field_name"] != "fieldName" {
		t.Errorf("KeyCasing rewrote a value: %v", leaf)
	}
}

func TestResourcePath(t *testing.T) {
	if got := ResourcePath("213025502", "properties"); got != "properties/213025502" {
		t.Errorf("ResourcePath = %q", got)
	}
	if got := ResourcePath("properties/213025502", "properties"); got != "properties/213025502" {
		t.Errorf("ResourcePath not idempotent: %q", got)
	}
	if got := ResourcePath("98765", "accounts"); got != "accounts/98765" {
		t.Errorf("ResourcePath = %q", got)
	}
}

func TestParseRelativeDate(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  string
	}{
		{"today", "2025-03-15"},
		{"TODAY", "2025-03-15"},
		{"yesterday", "2025-03-14"},
		{"7daysAgo", "2025-03-08"},
		{"30daysago", "2025-02-13"},
		{"1monthAgo", "2025-02-13"},
		{"2monthsAgo", "2025-01-14"},
		{"2025-01-01", "2025-01-01"},
		{"garbage", "garbage"},
		{"daysAgo", "daysAgo"},
		{"-3daysAgo", "-3daysAgo"},
	}

	for _, tt := range tests {
		if got := ParseRelativeDate(tt.input, now); got != tt.want {
			t.Errorf("ParseRelativeDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
