package constants

// GA4 REST API base URLs
const (
	DataAPIBaseURL  = "https://analyticsdata.googleapis.com/v1beta"
	AdminAPIBaseURL = "https://analyticsadmin.googleapis.com/v1beta"
)

// OAuth2 scopes required for the Data and Admin APIs
const (
	ScopeAnalyticsReadOnly = "https://www.googleapis.com/auth/analytics.readonly"
	ScopeAnalyticsEdit     = "https://www.googleapis.com/auth/analytics.edit"
)

// Resource name prefixes
const (
	PropertyPrefix = "properties"
	AccountPrefix  = "accounts"
)

// HTTP headers
const (
	ContentType     = "Content-Type"
	Accept          = "Accept"
	ContentTypeJSON = "application/json"
)

// StringFilter match types accepted by the Data API
var StringMatchTypes = map[string]bool{
	"EXACT":          true,
	"BEGINS_WITH":    true,
	"ENDS_WITH":      true,
	"CONTAINS":       true,
	"FULL_REGEXP":    true,
	"PARTIAL_REGEXP": true,
}

// NumericFilter operations accepted by the Data API
var NumericOperations = map[string]bool{
	"EQUAL":                 true,
	"LESS_THAN":             true,
	"LESS_THAN_OR_EQUAL":    true,
	"GREATER_THAN":          true,
	"GREATER_THAN_OR_EQUAL": true,
}

// Error messages
const (
	ErrClientNotInitialized = "Google Analytics client not initialized"
	ErrNoPropertyID         = "No property ID provided"
	ErrMetricsRequired      = "Metrics parameter is required and must be a valid list"
	ErrNoUpdateFields       = "No fields provided to update"
	ErrInvalidFilterConfig  = "Invalid filter configuration"
)

// Resource URIs served by the MCP resource registry
const (
	ResourceDefaultMetadata  = "ga4://default/metadata"
	ResourcePropertyMetadata = "ga4://{property_id}/metadata"
	ResourcePropertiesList   = "ga4://properties/list"
)

// Default values
const (
	DefaultTimeout     = 30 // seconds
	DefaultReportLimit = 10000
	MaxReportLimit     = 250000
)

// MCP-specific constants
const (
	MCPProtocolVersion = "2024-11-05"
	MCPServerName      = "ga4-mcp-server"
	MCPServerVersion   = "1.0.0"
)
