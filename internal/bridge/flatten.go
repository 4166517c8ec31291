package bridge

import (
	"strings"

	"github.com/zmcp/ga4-mcp/internal/ga4"
)

// Output shapes returned by the tools. Tags are snake_case to match the
// tool input vocabulary, and field order follows declaration order so the
// serialized JSON reads the same way every time.

type dimensionHeaderOutput struct {
	Name string `json:"name"`
}

type metricHeaderOutput struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type rowOutput struct {
	DimensionValues []string `json:"dimension_values"`
	MetricValues    []string `json:"metric_values"`
}

type reportOutput struct {
	DimensionHeaders []dimensionHeaderOutput `json:"dimension_headers"`
	MetricHeaders    []metricHeaderOutput    `json:"metric_headers"`
	Rows             []rowOutput             `json:"rows"`
	Totals           []rowOutput             `json:"totals,omitempty"`
	Maximums         []rowOutput             `json:"maximums,omitempty"`
	Minimums         []rowOutput             `json:"minimums,omitempty"`
	RowCount         int                     `json:"row_count"`
	Metadata         map[string]interface{}  `json:"metadata,omitempty"`
	PropertyQuota    map[string]interface{}  `json:"property_quota,omitempty"`
	Kind             string                  `json:"kind,omitempty"`
}

type dateRangeOutput struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type legacyReportOutput struct {
	reportOutput
	ParsedDateRanges []dateRangeOutput `json:"parsed_date_ranges"`
}

type realtimeOutput struct {
	DimensionHeaders []dimensionHeaderOutput `json:"dimension_headers"`
	MetricHeaders    []metricHeaderOutput    `json:"metric_headers"`
	Rows             []rowOutput             `json:"rows"`
	RowCount         int                     `json:"row_count"`
	Kind             string                  `json:"kind,omitempty"`
}

type dimensionMetadataOutput struct {
	APIName            string   `json:"api_name"`
	UIName             string   `json:"ui_name,omitempty"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category,omitempty"`
	CustomDefinition   bool     `json:"custom_definition,omitempty"`
	DeprecatedAPINames []string `json:"deprecated_api_names,omitempty"`
}

type metricMetadataOutput struct {
	APIName          string `json:"api_name"`
	UIName           string `json:"ui_name,omitempty"`
	Description      string `json:"description,omitempty"`
	Type             string `json:"type,omitempty"`
	Expression       string `json:"expression,omitempty"`
	Category         string `json:"category,omitempty"`
	CustomDefinition bool   `json:"custom_definition,omitempty"`
}

type metadataOutput struct {
	Name       string                    `json:"name,omitempty"`
	Dimensions []dimensionMetadataOutput `json:"dimensions,omitempty"`
	Metrics    []metricMetadataOutput    `json:"metrics,omitempty"`
	PropertyID string                    `json:"property_id,omitempty"`
}

type propertySummaryOutput struct {
	Property     string `json:"property"`
	PropertyID   string `json:"property_id"`
	DisplayName  string `json:"display_name"`
	PropertyType string `json:"property_type,omitempty"`
	Parent       string `json:"parent,omitempty"`
}

type accountSummaryOutput struct {
	Account           string                  `json:"account"`
	AccountID         string                  `json:"account_id"`
	DisplayName       string                  `json:"display_name"`
	PropertySummaries []propertySummaryOutput `json:"property_summaries"`
}

type accountSummariesOutput struct {
	AccountSummaries []accountSummaryOutput `json:"account_summaries"`
	TotalAccounts    int                    `json:"total_accounts"`
}

type propertyDetailsOutput struct {
	PropertyID       string `json:"property_id"`
	ResourceName     string `json:"resource_name"`
	DisplayName      string `json:"display_name"`
	TimeZone         string `json:"time_zone,omitempty"`
	CurrencyCode     string `json:"currency_code,omitempty"`
	IndustryCategory string `json:"industry_category,omitempty"`
	CreateTime       string `json:"create_time,omitempty"`
	UpdateTime       string `json:"update_time,omitempty"`
	Parent           string `json:"parent,omitempty"`
	DeleteTime       string `json:"delete_time,omitempty"`
	ExpireTime       string `json:"expire_time,omitempty"`
}

type googleAdsLinkOutput struct {
	Name                      string `json:"name"`
	CustomerID                string `json:"customer_id"`
	CanManageClients          bool   `json:"can_manage_clients"`
	AdsPersonalizationEnabled *bool  `json:"ads_personalization_enabled,omitempty"`
	CreateTime                string `json:"create_time,omitempty"`
	UpdateTime                string `json:"update_time,omitempty"`
	CreatorEmailAddress       string `json:"creator_email_address,omitempty"`
}

type googleAdsLinksOutput struct {
	PropertyID     string                `json:"property_id"`
	GoogleAdsLinks []googleAdsLinkOutput `json:"google_ads_links"`
	TotalLinks     int                   `json:"total_links"`
}

type webStreamDataOutput struct {
	MeasurementID string `json:"measurement_id,omitempty"`
	FirebaseAppID string `json:"firebase_app_id,omitempty"`
	DefaultURI    string `json:"default_uri,omitempty"`
}

type dataStreamOutput struct {
	Name          string               `json:"name"`
	DataStreamID  string               `json:"data_stream_id"`
	DisplayName   string               `json:"display_name"`
	Type          string               `json:"type,omitempty"`
	CreateTime    string               `json:"create_time,omitempty"`
	UpdateTime    string               `json:"update_time,omitempty"`
	WebStreamData *webStreamDataOutput `json:"web_stream_data,omitempty"`
}

type dataStreamsOutput struct {
	PropertyID   string             `json:"property_id"`
	DataStreams  []dataStreamOutput `json:"data_streams"`
	TotalStreams int                `json:"total_streams"`
}

type createdDataStreamOutput struct {
	DataStreamID  string               `json:"data_stream_id"`
	ResourceName  string               `json:"resource_name"`
	DisplayName   string               `json:"display_name"`
	Type          string               `json:"type,omitempty"`
	CreateTime    string               `json:"create_time,omitempty"`
	UpdateTime    string               `json:"update_time,omitempty"`
	WebStreamData *webStreamDataOutput `json:"web_stream_data,omitempty"`
}

type enhancedMeasurementOutput struct {
	Name                    string   `json:"name"`
	PropertyID              string   `json:"property_id"`
	DataStreamID            string   `json:"data_stream_id"`
	StreamEnabled           bool     `json:"stream_enabled"`
	ScrollsEnabled          bool     `json:"scrolls_enabled"`
	OutboundClicksEnabled   bool     `json:"outbound_clicks_enabled"`
	SiteSearchEnabled       bool     `json:"site_search_enabled"`
	VideoEngagementEnabled  bool     `json:"video_engagement_enabled"`
	FileDownloadsEnabled    bool     `json:"file_downloads_enabled"`
	PageChangesEnabled      bool     `json:"page_changes_enabled"`
	FormInteractionsEnabled bool     `json:"form_interactions_enabled"`
	SearchQueryParameter    string   `json:"search_query_parameter,omitempty"`
	URIQueryParameter       string   `json:"uri_query_parameter,omitempty"`
	UpdatedFields           []string `json:"updated_fields"`
}

type propertyInfoOutput struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	ResourceName        string `json:"resource_name"`
	AccountName         string `json:"account_name"`
	AccountID           string `json:"account_id"`
	AccountResourceName string `json:"account_resource_name"`
	PropertyType        string `json:"property_type,omitempty"`
	Parent              string `json:"parent,omitempty"`
}

type propertiesListOutput struct {
	Properties []propertyInfoOutput `json:"properties"`
	TotalCount int                  `json:"total_count"`
}

// lastSegment extracts the trailing ID of a resource name like
// "properties/123" or "properties/123/dataStreams/456".
func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func flattenRows(rows []ga4.Row) []rowOutput {
	out := make([]rowOutput, 0, len(rows))
	for _, row := range rows {
		r := rowOutput{
			DimensionValues: make([]string, 0, len(row.DimensionValues)),
			MetricValues:    make([]string, 0, len(row.MetricValues)),
		}
		for _, dv := range row.DimensionValues {
			r.DimensionValues = append(r.DimensionValues, dv.Value)
		}
		for _, mv := range row.MetricValues {
			r.MetricValues = append(r.MetricValues, mv.Value)
		}
		out = append(out, r)
	}
	return out
}

func flattenReport(resp *ga4.RunReportResponse) reportOutput {
	out := reportOutput{
		DimensionHeaders: make([]dimensionHeaderOutput, 0, len(resp.DimensionHeaders)),
		MetricHeaders:    make([]metricHeaderOutput, 0, len(resp.MetricHeaders)),
		Rows:             flattenRows(resp.Rows),
		RowCount:         resp.RowCount,
		Metadata:         resp.Metadata,
		PropertyQuota:    resp.PropertyQuota,
		Kind:             resp.Kind,
	}
	for _, h := range resp.DimensionHeaders {
		out.DimensionHeaders = append(out.DimensionHeaders, dimensionHeaderOutput{Name: h.Name})
	}
	for _, h := range resp.MetricHeaders {
		out.MetricHeaders = append(out.MetricHeaders, metricHeaderOutput{Name: h.Name, Type: h.Type})
	}
	if len(resp.Totals) > 0 {
		out.Totals = flattenRows(resp.Totals)
	}
	if len(resp.Maximums) > 0 {
		out.Maximums = flattenRows(resp.Maximums)
	}
	if len(resp.Minimums) > 0 {
		out.Minimums = flattenRows(resp.Minimums)
	}
	return out
}

func flattenRealtime(resp *ga4.RunRealtimeReportResponse) realtimeOutput {
	out := realtimeOutput{
		DimensionHeaders: make([]dimensionHeaderOutput, 0, len(resp.DimensionHeaders)),
		MetricHeaders:    make([]metricHeaderOutput, 0, len(resp.MetricHeaders)),
		Rows:             flattenRows(resp.Rows),
		RowCount:         resp.RowCount,
		Kind:             resp.Kind,
	}
	for _, h := range resp.DimensionHeaders {
		out.DimensionHeaders = append(out.DimensionHeaders, dimensionHeaderOutput{Name: h.Name})
	}
	for _, h := range resp.MetricHeaders {
		out.MetricHeaders = append(out.MetricHeaders, metricHeaderOutput{Name: h.Name, Type: h.Type})
	}
	return out
}

func flattenDimensions(dims []ga4.DimensionMetadata) []dimensionMetadataOutput {
	out := make([]dimensionMetadataOutput, 0, len(dims))
	for _, d := range dims {
		out = append(out, dimensionMetadataOutput{
			APIName:            d.APIName,
			UIName:             d.UIName,
			Description:        d.Description,
			Category:           d.Category,
			CustomDefinition:   d.CustomDefinition,
			DeprecatedAPINames: d.DeprecatedAPINames,
		})
	}
	return out
}

func flattenMetrics(metrics []ga4.MetricMetadata) []metricMetadataOutput {
	out := make([]metricMetadataOutput, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, metricMetadataOutput{
			APIName:          m.APIName,
			UIName:           m.UIName,
			Description:      m.Description,
			Type:             m.Type,
			Expression:       m.Expression,
			Category:         m.Category,
			CustomDefinition: m.CustomDefinition,
		})
	}
	return out
}

func flattenProperty(p *ga4.Property) propertyDetailsOutput {
	return propertyDetailsOutput{
		PropertyID:       lastSegment(p.Name),
		ResourceName:     p.Name,
		DisplayName:      p.DisplayName,
		TimeZone:         p.TimeZone,
		CurrencyCode:     p.CurrencyCode,
		IndustryCategory: p.IndustryCategory,
		CreateTime:       p.CreateTime,
		UpdateTime:       p.UpdateTime,
		Parent:           p.Parent,
		DeleteTime:       p.DeleteTime,
		ExpireTime:       p.ExpireTime,
	}
}

func flattenWebStreamData(w *ga4.WebStreamData) *webStreamDataOutput {
	if w == nil {
		return nil
	}
	return &webStreamDataOutput{
		MeasurementID: w.MeasurementID,
		FirebaseAppID: w.FirebaseAppID,
		DefaultURI:    w.DefaultURI,
	}
}

func flattenDataStream(ds *ga4.DataStream) dataStreamOutput {
	return dataStreamOutput{
		Name:          ds.Name,
		DataStreamID:  lastSegment(ds.Name),
		DisplayName:   ds.DisplayName,
		Type:          ds.Type,
		CreateTime:    ds.CreateTime,
		UpdateTime:    ds.UpdateTime,
		WebStreamData: flattenWebStreamData(ds.WebStreamData),
	}
}

func flattenAccountSummaries(summaries []ga4.AccountSummary) accountSummariesOutput {
	out := accountSummariesOutput{
		AccountSummaries: make([]accountSummaryOutput, 0, len(summaries)),
	}
	for _, s := range summaries {
		account := accountSummaryOutput{
			Account:           s.Account,
			AccountID:         lastSegment(s.Account),
			DisplayName:       s.DisplayName,
			PropertySummaries: make([]propertySummaryOutput, 0, len(s.PropertySummaries)),
		}
		for _, ps := range s.PropertySummaries {
			account.PropertySummaries = append(account.PropertySummaries, propertySummaryOutput{
				Property:     ps.Property,
				PropertyID:   lastSegment(ps.Property),
				DisplayName:  ps.DisplayName,
				PropertyType: ps.PropertyType,
				Parent:       ps.Parent,
			})
		}
		out.AccountSummaries = append(out.AccountSummaries, account)
	}
	out.TotalAccounts = len(out.AccountSummaries)
	return out
}

func flattenPropertiesList(summaries []ga4.AccountSummary) propertiesListOutput {
	out := propertiesListOutput{Properties: make([]propertyInfoOutput, 0)}
	for _, s := range summaries {
		for _, ps := range s.PropertySummaries {
			out.Properties = append(out.Properties, propertyInfoOutput{
				ID:                  lastSegment(ps.Property),
				Name:                ps.DisplayName,
				ResourceName:        ps.Property,
				AccountName:         s.DisplayName,
				AccountID:           lastSegment(s.Account),
				AccountResourceName: s.Account,
				PropertyType:        ps.PropertyType,
				Parent:              ps.Parent,
			})
		}
	}
	out.TotalCount = len(out.Properties)
	return out
}
