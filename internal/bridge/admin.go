package bridge

import (
	"context"

	"github.com/zmcp/ga4-mcp/internal/constants"
	"github.com/zmcp/ga4-mcp/internal/ga4"
	"github.com/zmcp/ga4-mcp/internal/mcp"
	"github.com/zmcp/ga4-mcp/internal/normalize"
)

// registerAdminTools registers the Admin API tool surface
func (b *GA4MCPBridge) registerAdminTools() {
	b.server.AddTool(&mcp.Tool{
		Name:        "get_account_summaries",
		Description: "Get all Google Analytics account summaries including their properties.",
		InputSchema: emptySchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleGetAccountSummaries(ctx), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "get_property_details",
		Description: "Get detailed information about a specific Google Analytics 4 property.",
		InputSchema: propertyIDSchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleGetPropertyDetails(ctx, args), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "list_google_ads_links",
		Description: "List all Google Ads links for a specific Google Analytics 4 property.",
		InputSchema: propertyIDSchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleListGoogleAdsLinks(ctx, args), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "list_data_streams",
		Description: "List all data streams for a specific Google Analytics 4 property.",
		InputSchema: propertyIDSchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleListDataStreams(ctx, args), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "create_property",
		Description: "Create a new Google Analytics 4 property under an account.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"display_name": map[string]interface{}{
					"type":        "string",
					"description": "Human-readable display name for the property",
				},
				"time_zone": map[string]interface{}{
					"type":        "string",
					"description": "Reporting time zone, e.g. \"America/Los_Angeles\"",
				},
				"parent": map[string]interface{}{
					"type":        "string",
					"description": "Parent account, as \"accounts/{id}\" or a bare account ID",
				},
				"currency_code": map[string]interface{}{
					"type":        "string",
					"description": "ISO4217 currency code, e.g. \"USD\"",
				},
				"industry_category": map[string]interface{}{
					"type":        "string",
					"description": "Industry category, e.g. \"TECHNOLOGY\"",
				},
			},
			"required": []string{"display_name", "time_zone", "parent"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleCreateProperty(ctx, args), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "create_data_stream",
		Description: "Create a new web data stream for a Google Analytics 4 property.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"parent_property_id": map[string]interface{}{
					"type":        "string",
					"description": "GA4 property ID where the data stream will be created",
				},
				"display_name": map[string]interface{}{
					"type":        "string",
					"description": "Human-readable display name for the data stream",
				},
				"default_uri": map[string]interface{}{
					"type":        "string",
					"description": "Default URI for the web stream, e.g. \"https://example.com\"",
				},
			},
			"required": []string{"parent_property_id", "display_name", "default_uri"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleCreateDataStream(ctx, args), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name: "update_enhanced_measurement_settings",
		Description: "Update enhanced measurement settings for a Google Analytics 4 web data " +
			"stream. Only the provided fields are changed.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"property_id": map[string]interface{}{
					"type":        "string",
					"description": "GA4 property ID",
				},
				"data_stream_id": map[string]interface{}{
					"type":        "string",
					"description": "Data stream ID",
				},
				"stream_enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether enhanced measurement is active",
				},
				"scrolls_enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "Capture scroll events when reaching page bottom",
				},
				"outbound_clicks_enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "Track clicks leading away from your domain",
				},
				"site_search_enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "Record site search result views",
				},
				"video_engagement_enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "Capture video play, progress, and completion events",
				},
				"file_downloads_enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "Track downloads of document, compressed, audio/video files",
				},
				"page_changes_enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "Measure browser history state changes",
				},
				"form_interactions_enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "Record form interaction events",
				},
				"search_query_parameter": map[string]interface{}{
					"type":        "string",
					"description": "URL parameters for interpreting site search",
				},
				"uri_query_parameter": map[string]interface{}{
					"type":        "string",
					"description": "Additional URL query parameters",
				},
			},
			"required": []string{"property_id", "data_stream_id"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleUpdateEnhancedMeasurement(ctx, args), nil
	})
}

func (b *GA4MCPBridge) handleGetAccountSummaries(ctx context.Context) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	summaries, err := b.client.ListAccountSummaries(ctx)
	if err != nil {
		return errorJSON("Error getting account summaries: %v", err)
	}
	return toJSON(flattenAccountSummaries(summaries))
}

func (b *GA4MCPBridge) handleGetPropertyDetails(ctx context.Context, args map[string]interface{}) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	property, ok := b.resolveProperty(args)
	if !ok {
		return errorJSON(constants.ErrNoPropertyID)
	}

	resp, err := b.client.GetProperty(ctx, property)
	if err != nil {
		return errorJSON("Error getting property details: %v", err)
	}
	return toJSON(flattenProperty(resp))
}

func (b *GA4MCPBridge) handleListGoogleAdsLinks(ctx context.Context, args map[string]interface{}) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	property, ok := b.resolveProperty(args)
	if !ok {
		return errorJSON(constants.ErrNoPropertyID)
	}

	links, err := b.client.ListGoogleAdsLinks(ctx, property)
	if err != nil {
		return errorJSON("Error listing Google Ads links: %v", err)
	}

	out := googleAdsLinksOutput{
		PropertyID:     lastSegment(property),
		GoogleAdsLinks: make([]googleAdsLinkOutput, 0, len(links)),
	}
	for _, link := range links {
		out.GoogleAdsLinks = append(out.GoogleAdsLinks, googleAdsLinkOutput{
			Name:                      link.Name,
			CustomerID:                link.CustomerID,
			CanManageClients:          link.CanManageClients,
			AdsPersonalizationEnabled: link.AdsPersonalizationEnabled,
			CreateTime:                link.CreateTime,
			UpdateTime:                link.UpdateTime,
			CreatorEmailAddress:       link.Creator,
		})
	}
	out.TotalLinks = len(out.GoogleAdsLinks)
	return toJSON(out)
}

func (b *GA4MCPBridge) handleListDataStreams(ctx context.Context, args map[string]interface{}) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	property, ok := b.resolveProperty(args)
	if !ok {
		return errorJSON(constants.ErrNoPropertyID)
	}

	streams, err := b.client.ListDataStreams(ctx, property)
	if err != nil {
		return errorJSON("Error listing data streams: %v", err)
	}

	out := dataStreamsOutput{
		PropertyID:  lastSegment(property),
		DataStreams: make([]dataStreamOutput, 0, len(streams)),
	}
	for i := range streams {
		out.DataStreams = append(out.DataStreams, flattenDataStream(&streams[i]))
	}
	out.TotalStreams = len(out.DataStreams)
	return toJSON(out)
}

func (b *GA4MCPBridge) handleCreateProperty(ctx context.Context, args map[string]interface{}) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	displayName := stringArg(args, "display_name")
	timeZone := stringArg(args, "time_zone")
	parent := stringArg(args, "parent")
	if displayName == "" || timeZone == "" || parent == "" {
		return errorJSON("display_name, time_zone, and parent are required")
	}

	property := &ga4.Property{
		Parent:           normalize.ResourcePath(parent, constants.AccountPrefix),
		DisplayName:      displayName,
		TimeZone:         timeZone,
		CurrencyCode:     stringArg(args, "currency_code"),
		IndustryCategory: stringArg(args, "industry_category"),
	}

	resp, err := b.client.CreateProperty(ctx, property)
	if err != nil {
		return errorJSON("Error creating property: %v", err)
	}
	return toJSON(flattenProperty(resp))
}

func (b *GA4MCPBridge) handleCreateDataStream(ctx context.Context, args map[string]interface{}) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	parentID := stringArg(args, "parent_property_id")
	displayName := stringArg(args, "display_name")
	defaultURI := stringArg(args, "default_uri")
	if parentID == "" || displayName == "" || defaultURI == "" {
		return errorJSON("parent_property_id, display_name, and default_uri are required")
	}

	stream := &ga4.DataStream{
		Type:          "WEB_DATA_STREAM",
		DisplayName:   displayName,
		WebStreamData: &ga4.WebStreamData{DefaultURI: defaultURI},
	}

	parent := normalize.ResourcePath(parentID, constants.PropertyPrefix)
	resp, err := b.client.CreateDataStream(ctx, parent, stream)
	if err != nil {
		return errorJSON("Error creating data stream: %v", err)
	}

	return toJSON(createdDataStreamOutput{
		DataStreamID:  lastSegment(resp.Name),
		ResourceName:  resp.Name,
		DisplayName:   resp.DisplayName,
		Type:          resp.Type,
		CreateTime:    resp.CreateTime,
		UpdateTime:    resp.UpdateTime,
		WebStreamData: flattenWebStreamData(resp.WebStreamData),
	})
}

func (b *GA4MCPBridge) handleUpdateEnhancedMeasurement(ctx context.Context, args map[string]interface{}) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	propertyID := stringArg(args, "property_id")
	streamID := stringArg(args, "data_stream_id")
	if propertyID == "" || streamID == "" {
		return errorJSON("property_id and data_stream_id are required")
	}

	settings := &ga4.EnhancedMeasurementSettings{}
	var updateFields []string

	boolFields := []struct {
		arg  string
		dest **bool
	}{
		{"stream_enabled", &settings.StreamEnabled},
		{"scrolls_enabled", &settings.ScrollsEnabled},
		{"outbound_clicks_enabled", &settings.OutboundClicksEnabled},
		{"site_search_enabled", &settings.SiteSearchEnabled},
		{"video_engagement_enabled", &settings.VideoEngagementEnabled},
		{"file_downloads_enabled", &settings.FileDownloadsEnabled},
		{"page_changes_enabled", &settings.PageChangesEnabled},
		{"form_interactions_enabled", &settings.FormInteractionsEnabled},
	}
	for _, field := range boolFields {
		if v := optBoolArg(args, field.arg); v != nil {
			*field.dest = v
			updateFields = append(updateFields, field.arg)
		}
	}
	if _, ok := args["search_query_parameter"]; ok {
		settings.SearchQueryParameter = stringArg(args, "search_query_parameter")
		updateFields = append(updateFields, "search_query_parameter")
	}
	if _, ok := args["uri_query_parameter"]; ok {
		settings.URIQueryParameter = stringArg(args, "uri_query_parameter")
		updateFields = append(updateFields, "uri_query_parameter")
	}

	if len(updateFields) == 0 {
		return errorJSON(constants.ErrNoUpdateFields)
	}

	property := normalize.ResourcePath(propertyID, constants.PropertyPrefix)
	resp, err := b.client.UpdateEnhancedMeasurementSettings(ctx, property, streamID, settings, updateFields)
	if err != nil {
		return errorJSON("Error updating enhanced measurement settings: %v", err)
	}

	return toJSON(enhancedMeasurementOutput{
		Name:                    resp.Name,
		PropertyID:              propertyID,
		DataStreamID:            streamID,
		StreamEnabled:           boolValue(resp.StreamEnabled),
		ScrollsEnabled:          boolValue(resp.ScrollsEnabled),
		OutboundClicksEnabled:   boolValue(resp.OutboundClicksEnabled),
		SiteSearchEnabled:       boolValue(resp.SiteSearchEnabled),
		VideoEngagementEnabled:  boolValue(resp.VideoEngagementEnabled),
		FileDownloadsEnabled:    boolValue(resp.FileDownloadsEnabled),
		PageChangesEnabled:      boolValue(resp.PageChangesEnabled),
		FormInteractionsEnabled: boolValue(resp.FormInteractionsEnabled),
		SearchQueryParameter:    resp.SearchQueryParameter,
		URIQueryParameter:       resp.URIQueryParameter,
		UpdatedFields:           updateFields,
	})
}

func boolValue(v *bool) bool {
	return v != nil && *v
}
