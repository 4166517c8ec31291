// Package hint builds the example texts served by the run_report_*_hints
// tools. Examples are marshaled from the real wire types so they always
// match what the request builder emits.
package hint

import (
	"encoding/json"
	"fmt"

	"github.com/zmcp/ga4-mcp/internal/ga4"
)

// filterNotes documents why some dimension/metric filter combinations
// cannot be expressed in a single report request.
const filterNotes = `
  Notes:
    The API applies the ` + "`dimension_filter`" + ` and ` + "`metric_filter`" + `
    independently. As a result, some complex combinations of dimension and
    metric filters are not possible in a single report request.

    For example, you can't create a ` + "`dimension_filter`" + ` and ` + "`metric_filter`" + `
    combination for the following condition:

    (
      (eventName = "page_view" AND eventCount > 100)
      OR
      (eventName = "join_group" AND eventCount < 50)
    )

    This isn't possible because there's no way to apply the condition
    "eventCount > 100" only to the data with eventName of "page_view", and
    the condition "eventCount < 50" only to the data with eventName of
    "join_group".

    More generally, you can't define a ` + "`dimension_filter`" + ` and ` + "`metric_filter`" + `
    for:

    (
      ((dimension condition D1) AND (metric condition M1))
      OR
      ((dimension condition D2) AND (metric condition M2))
    )

    If you have complex conditions like this, either:

    a)  Run a single report that applies a subset of the conditions that
        the API supports as well as the data needed to perform filtering of the
        API response on the client side. For example, for the condition:
        (
          (eventName = "page_view" AND eventCount > 100)
          OR
          (eventName = "join_group" AND eventCount < 50)
        )
        You could run a report that filters only on:
        eventName one of "page_view" or "join_group"
        and include the eventCount metric, then filter the API response on the
        client side to apply the different metric filters for the different
        events.

    or

    b)  Run a separate report for each combination of dimension condition and
        metric condition. For the example above, you'd run one report for the
        combination of (D1 AND M1), and another report for the combination of
        (D2 AND M2).

    Try to run fewer reports (option a) if possible. However, if running
    fewer reports results in excessive quota usage for the API, use option
    b. More information on quota usage is at
    https://developers.google.com/analytics/blog/2023/data-api-quota-management.
  `

func toJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// StandardDimensions points at the schema table of dimensions available
// to every property.
func StandardDimensions() string {
	return `Standard dimensions defined in the HTML table at
    https://developers.google.com/analytics/devguides/reporting/data/v1/api-schema#dimensions
    These dimensions are available to *every* property`
}

// StandardMetrics points at the schema table of metrics available to
// every property.
func StandardMetrics() string {
	return `Standard metrics defined in the HTML table at
    https://developers.google.com/analytics/devguides/reporting/data/v1/api-schema#metrics
    These metrics are available to *every* property`
}

// DateRanges builds the date_ranges examples
func DateRanges() string {
	rangeJan := ga4.DateRange{StartDate: "2025-01-01", EndDate: "2025-01-31", Name: "Jan2025"}
	rangeFeb := ga4.DateRange{StartDate: "2025-02-01", EndDate: "2025-02-28", Name: "Feb2025"}
	rangeLast2Days := ga4.DateRange{StartDate: "yesterday", EndDate: "today", Name: "YesterdayAndToday"}
	rangePrev30Days := ga4.DateRange{StartDate: "30daysAgo", EndDate: "yesterday", Name: "Previous30Days"}

	return fmt.Sprintf(`Example date_range arguments:
      1. A single date range:
        [ %s ]

      2. A relative date range using 'yesterday' and 'today':
        [ %s ]

      3. A relative date range using 'NdaysAgo' and 'today':
        [ %s ]

      4. Multiple date ranges:
        [ %s, %s ]
    `, toJSON(rangeJan), toJSON(rangeLast2Days), toJSON(rangePrev30Days),
		toJSON(rangeJan), toJSON(rangeFeb))
}

// DimensionFilter builds the dimension_filter examples plus the shared
// filter-combination notes.
func DimensionFilter() string {
	beginsWith := &ga4.FilterExpression{
		Filter: &ga4.Filter{
			FieldName: "eventName",
			StringFilter: &ga4.StringFilter{
				MatchType: "BEGINS_WITH",
				Value:     "add",
			},
		},
	}
	notFilter := &ga4.FilterExpression{NotExpression: beginsWith}
	emptyFilter := &ga4.FilterExpression{
		Filter: &ga4.Filter{
			FieldName:   "source",
			EmptyFilter: &ga4.EmptyFilter{},
		},
	}
	sourceMediumFilter := &ga4.FilterExpression{
		Filter: &ga4.Filter{
			FieldName: "sourceMedium",
			StringFilter: &ga4.StringFilter{
				MatchType: "EXACT",
				Value:     "google / cpc",
			},
		},
	}
	eventListFilter := &ga4.FilterExpression{
		Filter: &ga4.Filter{
			FieldName: "eventName",
			InListFilter: &ga4.InListFilter{
				CaseSensitive: true,
				Values:        []string{"first_visit", "purchase", "add_to_cart"},
			},
		},
	}
	andFilter := &ga4.FilterExpression{
		AndGroup: &ga4.FilterExpressionList{
			Expressions: []*ga4.FilterExpression{sourceMediumFilter, eventListFilter},
		},
	}
	orFilter := &ga4.FilterExpression{
		OrGroup: &ga4.FilterExpressionList{
			Expressions: []*ga4.FilterExpression{sourceMediumFilter, eventListFilter},
		},
	}

	return fmt.Sprintf(`Example dimension_filter arguments:
      1. A simple filter:
        %s

      2. A NOT filter:
        %s

      3. An empty value filter:
        %s

      4. An AND group filter:
        %s

      5. An OR group filter:
        %s

    `, toJSON(beginsWith), toJSON(notFilter), toJSON(emptyFilter),
		toJSON(andFilter), toJSON(orFilter)) + filterNotes
}

// MetricFilter builds the metric_filter examples plus the shared
// filter-combination notes.
func MetricFilter() string {
	eventCountGt10 := &ga4.FilterExpression{
		Filter: &ga4.Filter{
			FieldName: "eventCount",
			NumericFilter: &ga4.NumericFilter{
				Operation: "GREATER_THAN",
				Value:     &ga4.NumericValue{Int64Value: "10"},
			},
		},
	}
	notFilter := &ga4.FilterExpression{NotExpression: eventCountGt10}
	emptyFilter := &ga4.FilterExpression{
		Filter: &ga4.Filter{
			FieldName:   "purchaseRevenue",
			EmptyFilter: &ga4.EmptyFilter{},
		},
	}
	from, to := 10.0, 25.0
	revenueBetween := &ga4.FilterExpression{
		Filter: &ga4.Filter{
			FieldName: "purchaseRevenue",
			BetweenFilter: &ga4.BetweenFilter{
				FromValue: &ga4.NumericValue{DoubleValue: &from},
				ToValue:   &ga4.NumericValue{DoubleValue: &to},
			},
		},
	}
	andFilter := &ga4.FilterExpression{
		AndGroup: &ga4.FilterExpressionList{
			Expressions: []*ga4.FilterExpression{eventCountGt10, revenueBetween},
		},
	}
	orFilter := &ga4.FilterExpression{
		OrGroup: &ga4.FilterExpressionList{
			Expressions: []*ga4.FilterExpression{eventCountGt10, revenueBetween},
		},
	}

	return fmt.Sprintf(`Example metric_filter arguments:
      1. A simple filter:
        %s

      2. A NOT filter:
        %s

      3. An empty value filter:
        %s

      4. An AND group filter:
        %s

      5. An OR group filter:
        %s

    `, toJSON(eventCountGt10), toJSON(notFilter), toJSON(emptyFilter),
		toJSON(andFilter), toJSON(orFilter)) + filterNotes
}

// OrderBys builds the order_bys examples
func OrderBys() string {
	dimAlphaAsc := ga4.OrderBy{
		Dimension: &ga4.DimensionOrderBy{
			DimensionName: "eventName",
			OrderType:     "ALPHANUMERIC",
		},
	}
	dimAlphaNoCaseDesc := ga4.OrderBy{
		Dimension: &ga4.DimensionOrderBy{
			DimensionName: "campaignName",
			OrderType:     "CASE_INSENSITIVE_ALPHANUMERIC",
		},
		Desc: true,
	}
	dimNumericAsc := ga4.OrderBy{
		Dimension: &ga4.DimensionOrderBy{
			DimensionName: "audienceId",
			OrderType:     "NUMERIC",
		},
	}
	metricAsc := ga4.OrderBy{
		Metric: &ga4.MetricOrderBy{MetricName: "eventCount"},
	}
	metricDesc := ga4.OrderBy{
		Metric: &ga4.MetricOrderBy{MetricName: "eventValue"},
		Desc:   true,
	}

	return fmt.Sprintf(`Example order_bys arguments:

    1.  Order by ascending 'eventName':
        [ %s ]

    2.  Order by descending 'eventName', ignoring case:
        [ %s ]

    3.  Order by ascending 'audienceId':
        [ %s ]

    4.  Order by descending 'eventCount':
        [ %s ]

    5.  Order by ascending 'eventCount':
        [ %s ]

    6.  Combination of dimension and metric order bys:
        [
          %s,
          %s,
        ]

    7.  Order by multiple dimensions and metrics:
        [
          %s,
          %s,
          %s,
        ]

    The dimensions and metrics in order_bys must also be present in the report
    request's "dimensions" and "metrics" arguments, respectively.
    `, toJSON(dimAlphaAsc), toJSON(dimAlphaNoCaseDesc), toJSON(dimNumericAsc),
		toJSON(metricDesc), toJSON(metricAsc),
		toJSON(dimAlphaAsc), toJSON(metricDesc),
		toJSON(dimAlphaAsc), toJSON(dimNumericAsc), toJSON(metricDesc))
}
