package ga4

// Wire types for the GA4 Data API v1beta and Admin API v1beta. Field tags
// mirror the REST JSON exactly (camelCase; int64 values serialized as
// strings per Google's JSON mapping).

// --- Data API: report requests ---

// DateRange is a reporting date range in YYYY-MM-DD or relative form
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Name      string `json:"name,omitempty"`
}

// Dimension names a report dimension
type Dimension struct {
	Name string `json:"name"`
}

// Metric names a report metric
type Metric struct {
	Name string `json:"name"`
}

// FilterExpression is the recursive filter tree of the Data API.
// Exactly one field is set.
type FilterExpression struct {
	AndGroup      *FilterExpressionList `json:"andGroup,omitempty"`
	OrGroup       *FilterExpressionList `json:"orGroup,omitempty"`
	NotExpression *FilterExpression     `json:"notExpression,omitempty"`
	Filter        *Filter               `json:"filter,omitempty"`
}

// FilterExpressionList holds the operands of an andGroup/orGroup
type FilterExpressionList struct {
	Expressions []*FilterExpression `json:"expressions"`
}

// Filter is a leaf predicate on a single field. Exactly one of the
// predicate fields is set.
type Filter struct {
	FieldName     string         `json:"fieldName"`
	StringFilter  *StringFilter  `json:"stringFilter,omitempty"`
	InListFilter  *InListFilter  `json:"inListFilter,omitempty"`
	NumericFilter *NumericFilter `json:"numericFilter,omitempty"`
	BetweenFilter *BetweenFilter `json:"betweenFilter,omitempty"`
	EmptyFilter   *EmptyFilter   `json:"emptyFilter,omitempty"`
}

// StringFilter matches string dimension values
type StringFilter struct {
	MatchType     string `json:"matchType,omitempty"`
	Value         string `json:"value"`
	CaseSensitive bool   `json:"caseSensitive,omitempty"`
}

// InListFilter matches against a set of string values
type InListFilter struct {
	Values        []string `json:"values"`
	CaseSensitive bool     `json:"caseSensitive,omitempty"`
}

// NumericFilter compares a metric or numeric dimension against a value
type NumericFilter struct {
	Operation string        `json:"operation"`
	Value     *NumericValue `json:"value"`
}

// BetweenFilter matches values in a closed range
type BetweenFilter struct {
	FromValue *NumericValue `json:"fromValue"`
	ToValue   *NumericValue `json:"toValue"`
}

// EmptyFilter matches empty values
type EmptyFilter struct{}

// NumericValue holds either an integer or a double. Int64 travels as a
// JSON string per Google's proto3 JSON mapping.
type NumericValue struct {
	Int64Value  string   `json:"int64Value,omitempty"`
	DoubleValue *float64 `json:"doubleValue,omitempty"`
}

// OrderBy sorts report rows by a metric or dimension
type OrderBy struct {
	Metric    *MetricOrderBy    `json:"metric,omitempty"`
	Dimension *DimensionOrderBy `json:"dimension,omitempty"`
	Desc      bool              `json:"desc,omitempty"`
}

// MetricOrderBy sorts by a metric's values
type MetricOrderBy struct {
	MetricName string `json:"metricName"`
}

// DimensionOrderBy sorts by a dimension's values
type DimensionOrderBy struct {
	DimensionName string `json:"dimensionName"`
	OrderType     string `json:"orderType,omitempty"`
}

// RunReportRequest is the POST body for properties/{id}:runReport
type RunReportRequest struct {
	DateRanges          []DateRange       `json:"dateRanges"`
	Dimensions          []Dimension       `json:"dimensions,omitempty"`
	Metrics             []Metric          `json:"metrics"`
	DimensionFilter     *FilterExpression `json:"dimensionFilter,omitempty"`
	MetricFilter        *FilterExpression `json:"metricFilter,omitempty"`
	Offset              int64             `json:"offset,omitempty"`
	Limit               int64             `json:"limit,omitempty"`
	OrderBys            []OrderBy         `json:"orderBys,omitempty"`
	CurrencyCode        string            `json:"currencyCode,omitempty"`
	KeepEmptyRows       bool              `json:"keepEmptyRows,omitempty"`
	ReturnPropertyQuota bool              `json:"returnPropertyQuota,omitempty"`
}

// RunRealtimeReportRequest is the POST body for properties/{id}:runRealtimeReport
type RunRealtimeReportRequest struct {
	Dimensions []Dimension `json:"dimensions,omitempty"`
	Metrics    []Metric    `json:"metrics"`
	Limit      int64       `json:"limit,omitempty"`
}

// --- Data API: report responses ---

// DimensionHeader describes a dimension column
type DimensionHeader struct {
	Name string `json:"name"`
}

// MetricHeader describes a metric column
type MetricHeader struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// DimensionValue is one dimension cell
type DimensionValue struct {
	Value string `json:"value"`
}

// MetricValue is one metric cell
type MetricValue struct {
	Value string `json:"value"`
}

// Row is one report row
type Row struct {
	DimensionValues []DimensionValue `json:"dimensionValues,omitempty"`
	MetricValues    []MetricValue    `json:"metricValues,omitempty"`
}

// RunReportResponse is the body returned by :runReport
type RunReportResponse struct {
	DimensionHeaders []DimensionHeader      `json:"dimensionHeaders,omitempty"`
	MetricHeaders    []MetricHeader         `json:"metricHeaders,omitempty"`
	Rows             []Row                  `json:"rows,omitempty"`
	Totals           []Row                  `json:"totals,omitempty"`
	Maximums         []Row                  `json:"maximums,omitempty"`
	Minimums         []Row                  `json:"minimums,omitempty"`
	RowCount         int                    `json:"rowCount,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	PropertyQuota    map[string]interface{} `json:"propertyQuota,omitempty"`
	Kind             string                 `json:"kind,omitempty"`
}

// RunRealtimeReportResponse is the body returned by :runRealtimeReport
type RunRealtimeReportResponse struct {
	DimensionHeaders []DimensionHeader `json:"dimensionHeaders,omitempty"`
	MetricHeaders    []MetricHeader    `json:"metricHeaders,omitempty"`
	Rows             []Row             `json:"rows,omitempty"`
	RowCount         int               `json:"rowCount,omitempty"`
	Kind             string            `json:"kind,omitempty"`
}

// --- Data API: metadata ---

// DimensionMetadata describes one dimension of a property's catalog
type DimensionMetadata struct {
	APIName            string   `json:"apiName"`
	UIName             string   `json:"uiName,omitempty"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category,omitempty"`
	CustomDefinition   bool     `json:"customDefinition,omitempty"`
	DeprecatedAPINames []string `json:"deprecatedApiNames,omitempty"`
}

// MetricMetadata describes one metric of a property's catalog
type MetricMetadata struct {
	APIName          string `json:"apiName"`
	UIName           string `json:"uiName,omitempty"`
	Description      string `json:"description,omitempty"`
	Type             string `json:"type,omitempty"`
	Expression       string `json:"expression,omitempty"`
	Category         string `json:"category,omitempty"`
	CustomDefinition bool   `json:"customDefinition,omitempty"`
}

// Metadata is the dimension/metric catalog of a property
type Metadata struct {
	Name       string              `json:"name,omitempty"`
	Dimensions []DimensionMetadata `json:"dimensions,omitempty"`
	Metrics    []MetricMetadata    `json:"metrics,omitempty"`
}

// --- Admin API ---

// PropertySummary is a property entry within an account summary
type PropertySummary struct {
	Property     string `json:"property"`
	DisplayName  string `json:"displayName,omitempty"`
	PropertyType string `json:"propertyType,omitempty"`
	Parent       string `json:"parent,omitempty"`
}

// AccountSummary summarizes one account and its properties
type AccountSummary struct {
	Name              string            `json:"name"`
	Account           string            `json:"account,omitempty"`
	DisplayName       string            `json:"displayName,omitempty"`
	PropertySummaries []PropertySummary `json:"propertySummaries,omitempty"`
}

type listAccountSummariesResponse struct {
	AccountSummaries []AccountSummary `json:"accountSummaries"`
	NextPageToken    string           `json:"nextPageToken"`
}

// Property is a GA4 property resource
type Property struct {
	Name             string `json:"name,omitempty"`
	Parent           string `json:"parent,omitempty"`
	DisplayName      string `json:"displayName,omitempty"`
	IndustryCategory string `json:"industryCategory,omitempty"`
	TimeZone         string `json:"timeZone,omitempty"`
	CurrencyCode     string `json:"currencyCode,omitempty"`
	ServiceLevel     string `json:"serviceLevel,omitempty"`
	PropertyType     string `json:"propertyType,omitempty"`
	Account          string `json:"account,omitempty"`
	CreateTime       string `json:"createTime,omitempty"`
	UpdateTime       string `json:"updateTime,omitempty"`
	DeleteTime       string `json:"deleteTime,omitempty"`
	ExpireTime       string `json:"expireTime,omitempty"`
}

// GoogleAdsLink is a link between a property and a Google Ads account
type GoogleAdsLink struct {
	Name                      string `json:"name,omitempty"`
	CustomerID                string `json:"customerId,omitempty"`
	CanManageClients          bool   `json:"canManageClients,omitempty"`
	AdsPersonalizationEnabled *bool  `json:"adsPersonalizationEnabled,omitempty"`
	CreateTime                string `json:"createTime,omitempty"`
	UpdateTime                string `json:"updateTime,omitempty"`
	Creator                   string `json:"creator,omitempty"`
}

type listGoogleAdsLinksResponse struct {
	GoogleAdsLinks []GoogleAdsLink `json:"googleAdsLinks"`
	NextPageToken  string          `json:"nextPageToken"`
}

// WebStreamData carries web-stream specifics of a data stream
type WebStreamData struct {
	MeasurementID string `json:"measurementId,omitempty"`
	FirebaseAppID string `json:"firebaseAppId,omitempty"`
	DefaultURI    string `json:"defaultUri,omitempty"`
}

// DataStream is a GA4 data stream resource
type DataStream struct {
	Name          string         `json:"name,omitempty"`
	Type          string         `json:"type,omitempty"`
	DisplayName   string         `json:"displayName,omitempty"`
	WebStreamData *WebStreamData `json:"webStreamData,omitempty"`
	CreateTime    string         `json:"createTime,omitempty"`
	UpdateTime    string         `json:"updateTime,omitempty"`
}

type listDataStreamsResponse struct {
	DataStreams   []DataStream `json:"dataStreams"`
	NextPageToken string       `json:"nextPageToken"`
}

// EnhancedMeasurementSettings controls automatic event collection on a web
// stream. Booleans are pointers so a sparse PATCH only carries the fields
// named in the update mask.
type EnhancedMeasurementSettings struct {
	Name                     string `json:"name,omitempty"`
	StreamEnabled            *bool  `json:"streamEnabled,omitempty"`
	ScrollsEnabled           *bool  `json:"scrollsEnabled,omitempty"`
	OutboundClicksEnabled    *bool  `json:"outboundClicksEnabled,omitempty"`
	SiteSearchEnabled        *bool  `json:"siteSearchEnabled,omitempty"`
	VideoEngagementEnabled   *bool  `json:"videoEngagementEnabled,omitempty"`
	FileDownloadsEnabled     *bool  `json:"fileDownloadsEnabled,omitempty"`
	PageChangesEnabled       *bool  `json:"pageChangesEnabled,omitempty"`
	FormInteractionsEnabled  *bool  `json:"formInteractionsEnabled,omitempty"`
	SearchQueryParameter     string `json:"searchQueryParameter,omitempty"`
	URIQueryParameter        string `json:"uriQueryParameter,omitempty"`
}
