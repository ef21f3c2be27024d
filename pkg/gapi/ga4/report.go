package ga4

import (
	"context"
	"fmt"
)

// maxReportRows caps a single report request. The Data API rejects
// larger limits.
const maxReportRows = 250000

// ReportRequest describes a Data API report over a property.
type ReportRequest struct {
	PropertyID string
	Dimensions []string
	Metrics    []string
	StartDate  string
	EndDate    string
	Limit      int
	Offset     int
}

// ReportRow is one row of report output, dimension values followed by
// metric values in request order.
type ReportRow struct {
	DimensionValues []string `json:"dimensionValues"`
	MetricValues    []string `json:"metricValues"`
}

// Report is the result of running a report.
type Report struct {
	DimensionHeaders []string    `json:"dimensionHeaders"`
	MetricHeaders    []string    `json:"metricHeaders"`
	Rows             []ReportRow `json:"rows"`
	RowCount         int         `json:"rowCount"`
}

// RunReport executes a report against the Data API and returns the rows
// in a flattened form.
func (c *Client) RunReport(ctx context.Context, req ReportRequest) (*Report, error) {
	limit := req.Limit
	if limit <= 0 || limit > maxReportRows {
		limit = maxReportRows
	}

	dims := make([]map[string]string, 0, len(req.Dimensions))
	for _, d := range req.Dimensions {
		dims = append(dims, map[string]string{"name": d})
	}
	mets := make([]map[string]string, 0, len(req.Metrics))
	for _, m := range req.Metrics {
		mets = append(mets, map[string]string{"name": m})
	}

	body := map[string]any{
		"dimensions": dims,
		"metrics":    mets,
		"dateRanges": []map[string]string{
			{"startDate": req.StartDate, "endDate": req.EndDate},
		},
		"limit": limit,
	}
	if req.Offset > 0 {
		body["offset"] = req.Offset
	}

	var raw struct {
		DimensionHeaders []struct {
			Name string `json:"name"`
		} `json:"dimensionHeaders"`
		MetricHeaders []struct {
			Name string `json:"name"`
		} `json:"metricHeaders"`
		Rows []struct {
			DimensionValues []struct {
				Value string `json:"value"`
			} `json:"dimensionValues"`
			MetricValues []struct {
				Value string `json:"value"`
			} `json:"metricValues"`
		} `json:"rows"`
		RowCount int `json:"rowCount"`
	}

	url := fmt.Sprintf("%s/%s:runReport", c.dataBase, PropertyName(req.PropertyID))
	if err := c.api.PostJSON(ctx, url, body, &raw); err != nil {
		return nil, fmt.Errorf("run report for %s: %w", req.PropertyID, err)
	}

	out := &Report{RowCount: raw.RowCount}
	for _, h := range raw.DimensionHeaders {
		out.DimensionHeaders = append(out.DimensionHeaders, h.Name)
	}
	for _, h := range raw.MetricHeaders {
		out.MetricHeaders = append(out.MetricHeaders, h.Name)
	}
	for _, r := range raw.Rows {
		row := ReportRow{}
		for _, dv := range r.DimensionValues {
			row.DimensionValues = append(row.DimensionValues, dv.Value)
		}
		for _, mv := range r.MetricValues {
			row.MetricValues = append(row.MetricValues, mv.Value)
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
