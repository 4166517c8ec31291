package bridge

import (
	"context"
	"time"

	"github.com/zmcp/ga4-mcp/internal/constants"
	"github.com/zmcp/ga4-mcp/internal/filter"
	"github.com/zmcp/ga4-mcp/internal/ga4"
	"github.com/zmcp/ga4-mcp/internal/hint"
	"github.com/zmcp/ga4-mcp/internal/mcp"
	"github.com/zmcp/ga4-mcp/internal/normalize"
)

// registerReportingTools registers the Data API tool surface
func (b *GA4MCPBridge) registerReportingTools() {
	b.server.AddTool(&mcp.Tool{
		Name: "run_report",
		Description: "Run a Google Analytics Data API report. Field names in filters and " +
			"order_bys should be snake_case; see the run_report_*_hints tools for the " +
			"expected argument formats.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"property_id": map[string]interface{}{
					"type":        "string",
					"description": "The Google Analytics property ID",
				},
				"date_ranges": map[string]interface{}{
					"type":        "array",
					"description": "Date ranges to include in the report; see run_report_date_ranges_hints",
				},
				"dimensions": map[string]interface{}{
					"type":        "array",
					"description": "Dimension names to include in the report",
				},
				"metrics": map[string]interface{}{
					"type":        "array",
					"description": "Metric names to include in the report",
				},
				"dimension_filter": map[string]interface{}{
					"type":        "object",
					"description": "FilterExpression applied to dimensions; see run_report_dimension_filter_hints",
				},
				"metric_filter": map[string]interface{}{
					"type":        "object",
					"description": "FilterExpression applied to metrics; see run_report_metric_filter_hints",
				},
				"order_bys": map[string]interface{}{
					"type":        "array",
					"description": "OrderBy objects; see run_report_order_bys_hints",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of rows to return, positive and <= 250,000",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Row count of the start row; the first row is row 0",
				},
				"currency_code": map[string]interface{}{
					"type":        "string",
					"description": "ISO4217 currency code for currency values",
				},
				"return_property_quota": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether to return property quota in the response",
				},
			},
			"required": []string{"property_id", "date_ranges", "dimensions", "metrics"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleRunReport(ctx, args), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name: "get_report",
		Description: "Legacy report tool. Accepts start_date/end_date (relative forms like " +
			"'today', 'yesterday', 'NdaysAgo' are resolved locally) and tolerates list and " +
			"dict parameters passed as JSON strings. Prefer run_report for new usage.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"start_date": map[string]interface{}{
					"type":        "string",
					"description": "Start date in YYYY-MM-DD or relative form",
				},
				"end_date": map[string]interface{}{
					"type":        "string",
					"description": "End date in YYYY-MM-DD or relative form",
				},
				"metrics": map[string]interface{}{
					"description": "Metric names as a list or JSON string",
				},
				"dimensions": map[string]interface{}{
					"description": "Dimension names as a list or JSON string",
				},
				"dimension_filter": map[string]interface{}{
					"description": "FilterExpression as an object or JSON string",
				},
				"metric_filter": map[string]interface{}{
					"description": "FilterExpression as an object or JSON string",
				},
				"property_id": map[string]interface{}{
					"type":        "string",
					"description": "GA4 property ID; uses the default if omitted",
				},
				"limit": map[string]interface{}{
					"type": "integer",
				},
				"offset": map[string]interface{}{
					"type": "integer",
				},
			},
			"required": []string{"start_date", "end_date", "metrics"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleGetReport(ctx, args), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "get_realtime_data",
		Description: "Get real-time Google Analytics data.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"metrics": map[string]interface{}{
					"description": "Metric names (e.g. [\"activeUsers\"]) as a list or JSON string",
				},
				"dimensions": map[string]interface{}{
					"description": "Dimension names (e.g. [\"deviceCategory\"]) as a list or JSON string",
				},
				"property_id": map[string]interface{}{
					"type":        "string",
					"description": "GA4 property ID; uses the default if omitted",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Limit on the number of rows returned",
				},
			},
			"required": []string{"metrics"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleGetRealtimeData(ctx, args), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "get_metadata_tool",
		Description: "Get the full dimension and metric catalog for a property, including custom definitions.",
		InputSchema: propertyIDSchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleGetMetadata(ctx, args, metadataFull), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "get_dimensions",
		Description: "Get core reporting dimensions for a specific property, including custom dimensions.",
		InputSchema: propertyIDSchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleGetMetadata(ctx, args, metadataDimensions), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "get_metrics",
		Description: "Get core reporting metrics for a specific property, including custom metrics.",
		InputSchema: propertyIDSchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return b.handleGetMetadata(ctx, args, metadataMetrics), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "get_standard_dimensions",
		Description: "Get information about standard dimensions available to all properties.",
		InputSchema: emptySchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return hint.StandardDimensions(), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "get_standard_metrics",
		Description: "Get information about standard metrics available to all properties.",
		InputSchema: emptySchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return hint.StandardMetrics(), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "run_report_date_ranges_hints",
		Description: "Provide hints about the expected date_ranges parameter format for run_report.",
		InputSchema: emptySchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return hint.DateRanges(), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "run_report_dimension_filter_hints",
		Description: "Provide hints about the expected dimension_filter parameter format for run_report.",
		InputSchema: emptySchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return hint.DimensionFilter(), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "run_report_metric_filter_hints",
		Description: "Provide hints about the expected metric_filter parameter format for run_report.",
		InputSchema: emptySchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return hint.MetricFilter(), nil
	})

	b.server.AddTool(&mcp.Tool{
		Name:        "run_report_order_bys_hints",
		Description: "Provide hints about the expected order_bys parameter format for run_report.",
		InputSchema: emptySchema(),
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return hint.OrderBys(), nil
	})
}

func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func propertyIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"property_id": map[string]interface{}{
				"type":        "string",
				"description": "GA4 property ID",
			},
		},
		"required": []string{"property_id"},
	}
}

// buildReportRequest assembles a RunReportRequest from normalized
// arguments. Errors are caller mistakes, reported as InvalidArgument.
func buildReportRequest(args map[string]interface{}) (*ga4.RunReportRequest, error) {
	metrics := normalize.List(args["metrics"])
	if len(metrics) == 0 {
		return nil, normalize.InvalidArgumentf(constants.ErrMetricsRequired)
	}

	req := &ga4.RunReportRequest{
		ReturnPropertyQuota: boolArg(args, "return_property_quota"),
	}

	for _, m := range metrics {
		req.Metrics = append(req.Metrics, ga4.Metric{Name: asName(m)})
	}
	for _, d := range normalize.List(args["dimensions"]) {
		req.Dimensions = append(req.Dimensions, ga4.Dimension{Name: asName(d)})
	}

	for _, item := range normalize.List(args["date_ranges"]) {
		dr, err := normalize.Mapping(item)
		if err != nil {
			return nil, err
		}
		req.DateRanges = append(req.DateRanges, ga4.DateRange{
			StartDate: stringArg(dr, "start_date"),
			EndDate:   stringArg(dr, "end_date"),
			Name:      stringArg(dr, "name"),
		})
	}
	if len(req.DateRanges) == 0 {
		return nil, normalize.InvalidArgumentf("date_ranges parameter is required")
	}

	df, err := buildFilterArg(args["dimension_filter"])
	if err != nil {
		return nil, err
	}
	req.DimensionFilter = df

	mf, err := buildFilterArg(args["metric_filter"])
	if err != nil {
		return nil, err
	}
	req.MetricFilter = mf

	for _, item := range normalize.List(args["order_bys"]) {
		ob, err := normalize.Mapping(item)
		if err != nil {
			return nil, err
		}
		orderBy, err := buildOrderBy(ob)
		if err != nil {
			return nil, err
		}
		req.OrderBys = append(req.OrderBys, orderBy)
	}

	if limit, ok := int64Arg(args, "limit"); ok {
		if limit <= 0 || limit > constants.MaxReportLimit {
			return nil, normalize.InvalidArgumentf("limit must be a positive integer <= %d", constants.MaxReportLimit)
		}
		req.Limit = limit
	}
	if offset, ok := int64Arg(args, "offset"); ok {
		if offset < 0 {
			return nil, normalize.InvalidArgumentf("offset must be >= 0")
		}
		req.Offset = offset
	}
	req.CurrencyCode = stringArg(args, "currency_code")

	return req, nil
}

// buildFilterArg normalizes one filter argument (object or JSON string,
// camelCase or snake_case keys) into a FilterExpression.
func buildFilterArg(value interface{}) (*ga4.FilterExpression, error) {
	if value == nil {
		return nil, nil
	}
	m, err := normalize.Mapping(value)
	if err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	normalized, _ := normalize.KeyCasing(m).(map[string]interface{})
	return filter.Build(normalized)
}

func buildOrderBy(spec map[string]interface{}) (ga4.OrderBy, error) {
	orderBy := ga4.OrderBy{Desc: boolArg(spec, "desc")}

	hasMetric := spec["metric"] != nil
	hasDimension := spec["dimension"] != nil
	if hasMetric == hasDimension {
		return orderBy, normalize.InvalidArgumentf("order_by requires exactly one of metric or dimension")
	}

	if hasMetric {
		m, err := normalize.Mapping(spec["metric"])
		if err != nil {
			return orderBy, err
		}
		name := stringArg(m, "metric_name")
		if name == "" {
			return orderBy, normalize.InvalidArgumentf("order_by metric requires metric_name")
		}
		orderBy.Metric = &ga4.MetricOrderBy{MetricName: name}
		return orderBy, nil
	}

	d, err := normalize.Mapping(spec["dimension"])
	if err != nil {
		return orderBy, err
	}
	name := stringArg(d, "dimension_name")
	if name == "" {
		return orderBy, normalize.InvalidArgumentf("order_by dimension requires dimension_name")
	}
	orderBy.Dimension = &ga4.DimensionOrderBy{
		DimensionName: name,
		OrderType:     stringArg(d, "order_type"),
	}
	return orderBy, nil
}

// asName accepts both "pagePath" and {"name": "pagePath"} forms
func asName(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		name, _ := v["name"].(string)
		return name
	default:
		return ""
	}
}

func (b *GA4MCPBridge) handleRunReport(ctx context.Context, args map[string]interface{}) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	property, ok := b.resolveProperty(args)
	if !ok {
		return errorJSON(constants.ErrNoPropertyID)
	}

	req, err := buildReportRequest(args)
	if err != nil {
		return errorJSON("Error running report: %v", err)
	}

	b.logVerbose("run_report %s: %d metrics, %d dimensions", property, len(req.Metrics), len(req.Dimensions))

	resp, err := b.client.RunReport(ctx, property, req)
	if err != nil {
		return errorJSON("Error running report: %v", err)
	}
	return toJSON(flattenReport(resp))
}

func (b *GA4MCPBridge) handleGetReport(ctx context.Context, args map[string]interface{}) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	metrics := normalize.List(args["metrics"])
	if len(metrics) == 0 {
		return errorJSON(constants.ErrMetricsRequired)
	}

	property, ok := b.resolveProperty(args)
	if !ok {
		return errorJSON(constants.ErrNoPropertyID)
	}

	now := time.Now()
	startDate := normalize.ParseRelativeDate(stringArg(args, "start_date"), now)
	endDate := normalize.ParseRelativeDate(stringArg(args, "end_date"), now)

	limit := args["limit"]
	if limit == nil {
		limit = float64(constants.DefaultReportLimit)
	}

	reportArgs := map[string]interface{}{
		"metrics":          args["metrics"],
		"dimensions":       args["dimensions"],
		"dimension_filter": args["dimension_filter"],
		"metric_filter":    args["metric_filter"],
		"limit":            limit,
		"offset":           args["offset"],
		"date_ranges": []interface{}{
			map[string]interface{}{"start_date": startDate, "end_date": endDate},
		},
	}

	req, err := buildReportRequest(reportArgs)
	if err != nil {
		return errorJSON("Error getting report: %v", err)
	}

	resp, err := b.client.RunReport(ctx, property, req)
	if err != nil {
		return errorJSON("Error getting report: %v", err)
	}

	return toJSON(legacyReportOutput{
		reportOutput: flattenReport(resp),
		ParsedDateRanges: []dateRangeOutput{
			{StartDate: startDate, EndDate: endDate},
		},
	})
}

func (b *GA4MCPBridge) handleGetRealtimeData(ctx context.Context, args map[string]interface{}) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	metrics := normalize.List(args["metrics"])
	if len(metrics) == 0 {
		return errorJSON(constants.ErrMetricsRequired)
	}

	property, ok := b.resolveProperty(args)
	if !ok {
		return errorJSON(constants.ErrNoPropertyID)
	}

	req := &ga4.RunRealtimeReportRequest{}
	for _, m := range metrics {
		req.Metrics = append(req.Metrics, ga4.Metric{Name: asName(m)})
	}
	for _, d := range normalize.List(args["dimensions"]) {
		req.Dimensions = append(req.Dimensions, ga4.Dimension{Name: asName(d)})
	}
	if limit, ok := int64Arg(args, "limit"); ok && limit > 0 {
		req.Limit = limit
	}

	resp, err := b.client.RunRealtimeReport(ctx, property, req)
	if err != nil {
		return errorJSON("Error getting realtime data: %v", err)
	}
	return toJSON(flattenRealtime(resp))
}

type metadataProjection int

const (
	metadataFull metadataProjection = iota
	metadataDimensions
	metadataMetrics
)

func (b *GA4MCPBridge) handleGetMetadata(ctx context.Context, args map[string]interface{}, projection metadataProjection) string {
	if b.client == nil {
		return errorJSON(constants.ErrClientNotInitialized)
	}

	property, ok := b.resolveProperty(args)
	if !ok {
		return errorJSON(constants.ErrNoPropertyID)
	}

	metadata, err := b.client.GetMetadata(ctx, property)
	if err != nil {
		switch projection {
		case metadataDimensions:
			return errorJSON("Error getting dimensions: %v", err)
		case metadataMetrics:
			return errorJSON("Error getting metrics: %v", err)
		default:
			return errorJSON("Error getting metadata: %v", err)
		}
	}

	out := metadataOutput{Name: metadata.Name}
	switch projection {
	case metadataDimensions:
		out.Dimensions = flattenDimensions(metadata.Dimensions)
	case metadataMetrics:
		out.Metrics = flattenMetrics(metadata.Metrics)
	default:
		out.Dimensions = flattenDimensions(metadata.Dimensions)
		out.Metrics = flattenMetrics(metadata.Metrics)
	}
	return toJSON(out)
}
