package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Is0meone/TransitTracker/pkg/tracker"
)

func (c *Client) Reports(ctx context.Context) ([]tracker.Report, error) {
	var reports []tracker.Report
	if err := c.doJSON(ctx, http.MethodGet, c.url("/reports/"), nil, &reports); err != nil {
		return nil, err
	}

	return reports, nil
}

func (c *Client) ReportsForRoute(ctx context.Context, line string) ([]tracker.Report, error) {
	if line == "" {
		return nil, ErrMissingLineName
	}

	var reports []tracker.Report
	if err := c.doJSON(ctx, http.MethodGet, c.url("/reports/route/"+url.PathEscape(line)), nil, &reports); err != nil {
		return nil, err
	}

	return reports, nil
}

// CreateReport submits a report. The API does not document a response body, so
// a decoded report is only returned when one is sent back.
func (c *Client) CreateReport(ctx context.Context, report tracker.NewReport) (*tracker.Report, error) {
	var created tracker.Report
	if err := c.doJSON(ctx, http.MethodPost, c.url("/reports/"), report, &created); err != nil {
		if isEmptyBody(err) {
			return nil, nil
		}
		return nil, err
	}

	return &created, nil
}
