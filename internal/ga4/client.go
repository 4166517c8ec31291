package ga4

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"

	"github.com/zmcp/ga4-mcp/internal/constants"
)

// Client talks to the GA4 Data and Admin REST APIs with a service-account
// authenticated HTTP client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	dataBase   string
	adminBase  string
}

// New builds a Client from service-account credentials. The returned
// client holds an auto-refreshing OAuth2 token source.
func New(ctx context.Context, clientEmail, privateKey string) (*Client, error) {
	if clientEmail == "" {
		return nil, fmt.Errorf("client email is required")
	}
	if privateKey == "" {
		return nil, fmt.Errorf("private key is required")
	}

	conf := &jwt.Config{
		Email:      clientEmail,
		PrivateKey: []byte(privateKey),
		Scopes: []string{
			constants.ScopeAnalyticsReadOnly,
			constants.ScopeAnalyticsEdit,
		},
		TokenURL: google.JWTTokenURL,
	}

	httpClient := conf.Client(ctx)
	httpClient.Timeout = constants.DefaultTimeout * time.Second

	return &Client{
		httpClient: httpClient,
		dataBase:   constants.DataAPIBaseURL,
		adminBase:  constants.AdminAPIBaseURL,
	}, nil
}

// NewWithHTTPClient builds a Client against custom base URLs, used by
// tests to point at a stub server.
func NewWithHTTPClient(httpClient *http.Client, dataBase, adminBase string) *Client {
	return &Client{
		httpClient: httpClient,
		dataBase:   dataBase,
		adminBase:  adminBase,
	}
}

// --- Data API ---

// RunReport executes properties/{id}:runReport. property must be a full
// resource name like "properties/213025502".
func (c *Client) RunReport(ctx context.Context, property string, req *RunReportRequest) (*RunReportResponse, error) {
	var resp RunReportResponse
	url := fmt.Sprintf("%s/%s:runReport", c.dataBase, property)
	if err := c.doJSON(ctx, http.MethodPost, url, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunRealtimeReport executes properties/{id}:runRealtimeReport
func (c *Client) RunRealtimeReport(ctx context.Context, property string, req *RunRealtimeReportRequest) (*RunRealtimeReportResponse, error) {
	var resp RunRealtimeReportResponse
	url := fmt.Sprintf("%s/%s:runRealtimeReport", c.dataBase, property)
	if err := c.doJSON(ctx, http.MethodPost, url, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMetadata fetches the dimension/metric catalog of a property
func (c *Client) GetMetadata(ctx context.Context, property string) (*Metadata, error) {
	var resp Metadata
	url := fmt.Sprintf("%s/%s/metadata", c.dataBase, property)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Admin API ---

// ListAccountSummaries returns all account summaries, following page
// tokens until the cursor is drained.
func (c *Client) ListAccountSummaries(ctx context.Context) ([]AccountSummary, error) {
	var all []AccountSummary
	pageToken := ""
	for {
		url := c.adminBase + "/accountSummaries"
		if pageToken != "" {
			url += "?pageToken=" + pageToken
		}
		var resp listAccountSummariesResponse
		if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.AccountSummaries...)
		if resp.NextPageToken == "" {
			return all, nil
		}
		pageToken = resp.NextPageToken
	}
}

// GetProperty fetches one property by resource name
func (c *Client) GetProperty(ctx context.Context, property string) (*Property, error) {
	var resp Property
	url := fmt.Sprintf("%s/%s", c.adminBase, property)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateProperty creates a new GA4 property
func (c *Client) CreateProperty(ctx context.Context, property *Property) (*Property, error) {
	var resp Property
	url := c.adminBase + "/properties"
	if err := c.doJSON(ctx, http.MethodPost, url, property, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListGoogleAdsLinks returns all Google Ads links of a property, cursor
// drained.
func (c *Client) ListGoogleAdsLinks(ctx context.Context, property string) ([]GoogleAdsLink, error) {
	var all []GoogleAdsLink
	pageToken := ""
	for {
		url := fmt.Sprintf("%s/%s/googleAdsLinks", c.adminBase, property)
		if pageToken != "" {
			url += "?pageToken=" + pageToken
		}
		var resp listGoogleAdsLinksResponse
		if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.GoogleAdsLinks...)
		if resp.NextPageToken == "" {
			return all, nil
		}
		pageToken = resp.NextPageToken
	}
}

// ListDataStreams returns all data streams of a property, cursor drained.
func (c *Client) ListDataStreams(ctx context.Context, property string) ([]DataStream, error) {
	var all []DataStream
	pageToken := ""
	for {
		url := fmt.Sprintf("%s/%s/dataStreams", c.adminBase, property)
		if pageToken != "" {
			url += "?pageToken=" + pageToken
		}
		var resp listDataStreamsResponse
		if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.DataStreams...)
		if resp.NextPageToken == "" {
			return all, nil
		}
		pageToken = resp.NextPageToken
	}
}

// CreateDataStream creates a data stream under a property
func (c *Client) CreateDataStream(ctx context.Context, property string, stream *DataStream) (*DataStream, error) {
	var resp DataStream
	url := fmt.Sprintf("%s/%s/dataStreams", c.adminBase, property)
	if err := c.doJSON(ctx, http.MethodPost, url, stream, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateEnhancedMeasurementSettings patches the enhanced measurement
// settings of a web stream. Only the fields named in updateMask are sent.
func (c *Client) UpdateEnhancedMeasurementSettings(ctx context.Context, property, streamID string, settings *EnhancedMeasurementSettings, updateMask []string) (*EnhancedMeasurementSettings, error) {
	var resp EnhancedMeasurementSettings
	endpoint := fmt.Sprintf("%s/%s/dataStreams/%s/enhancedMeasurementSettings?updateMask=%s",
		c.adminBase, property, streamID, url.QueryEscape(strings.Join(updateMask, ",")))
	if err := c.doJSON(ctx, http.MethodPatch, endpoint, settings, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doJSON performs one JSON request/response round trip. Non-2xx responses
// surface as *APIError.
func (c *Client) doJSON(ctx context.Context, method, url string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set(constants.ContentType, constants.ContentTypeJSON)
	}
	req.Header.Set(constants.Accept, constants.ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
