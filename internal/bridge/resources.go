package bridge

import (
	"context"
	"fmt"

	"github.com/zmcp/ga4-mcp/internal/constants"
	"github.com/zmcp/ga4-mcp/internal/mcp"
	"github.com/zmcp/ga4-mcp/internal/normalize"
)

// registerResources registers the ga4:// resource surface
func (b *GA4MCPBridge) registerResources() {
	b.server.AddResource(&mcp.Resource{
		URI:         constants.ResourceDefaultMetadata,
		Name:        "Default property metadata",
		Description: "Dimension and metric catalog for the default Google Analytics property",
		MimeType:    "application/json",
	}, func(ctx context.Context, uri string, params map[string]string) (string, error) {
		if b.config.PropertyID == "" {
			return errorJSON("No default property ID configured"), nil
		}
		return b.readPropertyMetadata(ctx, b.config.PropertyID), nil
	})

	// Resource templates are not supported by every MCP client; the
	// get_metadata_tool tool covers the same ground.
	b.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: constants.ResourcePropertyMetadata,
		Name:        "Property metadata",
		Description: "Dimension and metric catalog for a specific Google Analytics property",
		MimeType:    "application/json",
	}, func(ctx context.Context, uri string, params map[string]string) (string, error) {
		propertyID := params["property_id"]
		if propertyID == "" {
			return errorJSON("No property ID configured"), nil
		}
		return b.readPropertyMetadata(ctx, propertyID), nil
	})

	b.server.AddResource(&mcp.Resource{
		URI:         constants.ResourcePropertiesList,
		Name:        "Properties list",
		Description: "All GA4 properties visible to the configured service account",
		MimeType:    "application/json",
	}, func(ctx context.Context, uri string, params map[string]string) (string, error) {
		return b.readPropertiesList(ctx), nil
	})
}

func (b *GA4MCPBridge) readPropertyMetadata(ctx context.Context, propertyID string) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	property := normalize.ResourcePath(propertyID, constants.PropertyPrefix)
	metadata, err := b.client.GetMetadata(ctx, property)
	if err != nil {
		return errorJSON("Error getting metadata: %v", err)
	}

	return toJSON(metadataOutput{
		Name:       metadata.Name,
		Dimensions: flattenDimensions(metadata.Dimensions),
		Metrics:    flattenMetrics(metadata.Metrics),
		PropertyID: lastSegment(property),
	})
}

func (b *GA4MCPBridge) readPropertiesList(ctx context.Context) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	summaries, err := b.client.ListAccountSummaries(ctx)
	if err != nil {
		return errorJSON("Failed to list GA4 properties: %v", err)
	}
	return toJSON(flattenPropertiesList(summaries))
}

// registerPrompts registers the prompt surface
func (b *GA4MCPBridge) registerPrompts() {
	b.server.AddPrompt(&mcp.Prompt{
		Name: "analyze_ga4_metadata",
		Description: "Generates a comprehensive analysis prompt for exploring the metadata of a " +
			"specific Google Analytics 4 property via the get_metadata_tool tool.",
		Arguments: []mcp.PromptArgument{
			{
				Name:        "property_id",
				Description: "The Google Analytics 4 property ID (e.g. \"123456789\") to analyze",
				Required:    true,
			},
		},
	}, func(ctx context.Context, args map[string]string) (string, error) {
		propertyID := args["property_id"]
		return analyzeMetadataPrompt(propertyID), nil
	})
}

func analyzeMetadataPrompt(propertyID string) string {
	return fmt.Sprintf(`Analyze the Google Analytics 4 property metadata for property ID '%[1]s'.

1.  First, use the `+"`get_metadata_tool(property_id='%[1]s')`"+` to retrieve the metadata.

2.  For the metadata found, extract and organize the following information for both dimensions and metrics:
    -   API Name
    -   UI Name (if available)
    -   Description
    -   Category (for both dimensions and metrics)
    -   Type (for metrics, e.g., INTEGER, FLOAT)

3.  Provide a comprehensive summary that includes:
    -   An overview of the total number of dimensions and metrics available.
    -   A breakdown of dimensions by category, highlighting the most common categories.
    -   A breakdown of metrics by category, highlighting the most common categories.
    -   Identify any potentially useful or commonly used dimensions (e.g., 'date', 'country', 'deviceCategory').
    -   Identify any potentially useful or commonly used metrics (e.g., 'activeUsers', 'screenPageViews', 'sessions').
    -   Suggest potential combinations of dimensions and metrics that could be used for common GA4 reports.
    -   Discuss any interesting or unusual dimensions/metrics.

4.  Organize your findings in a clear, structured format with headings and bullet points for easy readability.

Please present both detailed information about each dimension and metric and a high-level synthesis of the data capabilities of the '%[1]s' property.
`, propertyID)
}
