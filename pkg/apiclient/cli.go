package apiclient

import (
	"context"
	"fmt"
	"os"

	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/Is0meone/TransitTracker/pkg/tracker"
	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"
)

// reportRow is the flat CSV form of a report.
type reportRow struct {
	ID           int64   `csv:"id"`
	RouteName    string  `csv:"route_name"`
	Description  string  `csv:"description"`
	Verification string  `csv:"verified"`
	Likes        int     `csv:"likes"`
	Dislikes     int     `csv:"dislikes"`
	Latitude     float64 `csv:"lattidude"`
	Longitude    float64 `csv:"longidute"`
	CreatorID    int64   `csv:"creator_id"`
	Timestamp    string  `csv:"timestamp"`
}

func newReportRows(reports []tracker.Report) []*reportRow {
	rows := make([]*reportRow, 0, len(reports))

	for _, report := range reports {
		row := &reportRow{
			ID:           report.ID,
			RouteName:    report.RouteName,
			Description:  report.Description,
			Verification: string(report.Verified.Normalised()),
			Likes:        report.Likes,
			Dislikes:     report.Dislikes,
			Latitude:     report.Lattidude,
			Longitude:    report.Longidute,
			CreatorID:    report.CreatorID,
		}
		if reportTime, ok := report.Time(); ok {
			row.Timestamp = reportTime.UTC().Format("2006-01-02T15:04:05Z")
		}

		rows = append(rows, row)
	}

	return rows
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "reports",
		Usage: "Query community incident reports",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list reports, optionally for one route",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "route",
						Usage: "Only reports for this line",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Case-insensitive match on route name or description",
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Expression over report fields, e.g. 'likes > dislikes'",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Write CSV to stdout",
					},
				},
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := appConfig.Validate(); err != nil {
						return err
					}

					var filter *tracker.ReportFilter
					if c.String("filter") != "" {
						if filter, err = tracker.CompileReportFilter(c.String("filter")); err != nil {
							return err
						}
					}

					reports, err := listReports(c.Context, New(appConfig.API), c.String("route"))
					if err != nil {
						return err
					}

					reports = tracker.FilterReports(reports, c.String("search"))
					if filter != nil {
						if reports, err = filter.Apply(reports); err != nil {
							return err
						}
					}

					if c.Bool("csv") {
						return gocsv.Marshal(newReportRows(reports), os.Stdout)
					}

					counters := tracker.CountReports(reports)
					for _, summary := range tracker.RecentSummaries(reports, -1) {
						fmt.Printf("#%d %s [%s] %s (+%d/-%d)\n", summary.ID, summary.Title, summary.VerificationLabel, summary.Description, summary.Likes, summary.Dislikes)
					}
					fmt.Printf("%d reports: %d positive, %d unverified, %d negative\n", len(reports), counters.Positive, counters.Unverified, counters.Negative)

					return nil
				},
			},
		},
	}
}

func listReports(ctx context.Context, client *Client, route string) ([]tracker.Report, error) {
	if route != "" {
		return client.ReportsForRoute(ctx, route)
	}

	return client.Reports(ctx)
}
