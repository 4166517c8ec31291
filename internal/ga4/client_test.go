package ga4

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewWithHTTPClient(ts.Client(), ts.URL, ts.URL), ts
}

func TestRunReport(t *testing.T) {
	var gotBody RunReportRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/properties/213025502:runReport", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(RunReportResponse{
			DimensionHeaders: []DimensionHeader{{Name: "country"}},
			MetricHeaders:    []MetricHeader{{Name: "activeUsers", Type: "TYPE_INTEGER"}},
			Rows: []Row{
				{DimensionValues: []DimensionValue{{Value: "Japan"}}, MetricValues: []MetricValue{{Value: "100"}}},
				{DimensionValues: []DimensionValue{{Value: "France"}}, MetricValues: []MetricValue{{Value: "50"}}},
			},
			RowCount: 2,
		})
	})

	resp, err := client.RunReport(context.Background(), "properties/213025502", &RunReportRequest{
		DateRanges: []DateRange{{StartDate: "7daysAgo", EndDate: "today"}},
		Metrics:    []Metric{{Name: "activeUsers"}},
		Dimensions: []Dimension{{Name: "country"}},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Rows, 2)
	assert.Equal(t, 2, resp.RowCount)
	assert.Equal(t, "activeUsers", gotBody.Metrics[0].Name)
	assert.Equal(t, "7daysAgo", gotBody.DateRanges[0].StartDate)
}

func TestRunReportAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "User does not have sufficient permissions", "status": "PERMISSION_DENIED"}}`))
	})

	_, err := client.RunReport(context.Background(), "properties/1", &RunReportRequest{
		DateRanges: []DateRange{{StartDate: "today", EndDate: "today"}},
		Metrics:    []Metric{{Name: "activeUsers"}},
	})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "PERMISSION_DENIED", apiErr.Status)
	assert.Contains(t, apiErr.Error(), "HTTP 403")
	assert.Contains(t, apiErr.Error(), "User does not have sufficient permissions")
}

func TestAPIErrorUnparseableBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})

	_, err := client.GetMetadata(context.Background(), "properties/1")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestListAccountSummariesDrainsPages(t *testing.T) {
	var tokens []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accountSummaries", r.URL.Path)
		token := r.URL.Query().Get("pageToken")
		tokens = append(tokens, token)

		switch token {
		case "":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"accountSummaries": []AccountSummary{{Name: "accountSummaries/1", Account: "accounts/1", DisplayName: "First"}},
				"nextPageToken":    "page-2",
			})
		case "page-2":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"accountSummaries": []AccountSummary{{Name: "accountSummaries/2", Account: "accounts/2", DisplayName: "Second"}},
			})
		default:
			t.Errorf("unexpected page token %q", token)
		}
	})

	summaries, err := client.ListAccountSummaries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "page-2"}, tokens)
	require.Len(t, summaries, 2)
	assert.Equal(t, "First", summaries[0].DisplayName)
	assert.Equal(t, "Second", summaries[1].DisplayName)
}

func TestListDataStreamsDrainsPages(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/properties/42/dataStreams", r.URL.Path)
		if calls == 1 {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"dataStreams":   []DataStream{{Name: "properties/42/dataStreams/1", DisplayName: "Web"}},
				"nextPageToken": "next",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"dataStreams": []DataStream{{Name: "properties/42/dataStreams/2", DisplayName: "App"}},
		})
	})

	streams, err := client.ListDataStreams(context.Background(), "properties/42")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, streams, 2)
}

func TestUpdateEnhancedMeasurementSettings(t *testing.T) {
	enabled := true
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/properties/42/dataStreams/7/enhancedMeasurementSettings", r.URL.Path)
		assert.Equal(t, "stream_enabled,scrolls_enabled", r.URL.Query().Get("updateMask"))

		var body EnhancedMeasurementSettings
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.StreamEnabled)
		assert.True(t, *body.StreamEnabled)
		assert.Nil(t, body.SiteSearchEnabled)

		body.Name = "properties/42/dataStreams/7/enhancedMeasurementSettings"
		json.NewEncoder(w).Encode(body)
	})

	resp, err := client.UpdateEnhancedMeasurementSettings(context.Background(), "properties/42", "7",
		&EnhancedMeasurementSettings{StreamEnabled: &enabled, ScrollsEnabled: &enabled},
		[]string{"stream_enabled", "scrolls_enabled"})
	require.NoError(t, err)
	assert.Equal(t, "properties/42/dataStreams/7/enhancedMeasurementSettings", resp.Name)
}

func TestGetMetadata(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/properties/99/metadata", r.URL.Path)
		json.NewEncoder(w).Encode(Metadata{
			Name:       "properties/99/metadata",
			Dimensions: []DimensionMetadata{{APIName: "country", UIName: "Country"}},
			Metrics:    []MetricMetadata{{APIName: "activeUsers", Type: "TYPE_INTEGER"}},
		})
	})

	metadata, err := client.GetMetadata(context.Background(), "properties/99")
	require.NoError(t, err)
	assert.Equal(t, "country", metadata.Dimensions[0].APIName)
	assert.Equal(t, "activeUsers", metadata.Metrics[0].APIName)
}
