package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/elastic_client"
	"github.com/Is0meone/TransitTracker/pkg/tracker"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog/log"
)

const reportsIndexPrefix = "transittracker-reports-"

type ReportLister interface {
	Reports(ctx context.Context) ([]tracker.Report, error)
}

type reportDocument struct {
	ID          int64            `json:"id"`
	RouteName   string           `json:"route_name"`
	Description string           `json:"description"`
	Verified    string           `json:"verified"`
	Likes       int              `json:"likes"`
	Dislikes    int              `json:"dislikes"`
	CreatorID   int64            `json:"creator_id"`
	Location    documentGeoPoint `json:"location"`
	Timestamp   *int64           `json:"timestamp,omitempty"`
}

type documentGeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func newReportDocument(report tracker.Report) reportDocument {
	return reportDocument{
		ID:          report.ID,
		RouteName:   strings.TrimSpace(report.RouteName),
		Description: report.Description,
		Verified:    string(report.Verified.Normalised()),
		Likes:       report.Likes,
		Dislikes:    report.Dislikes,
		CreatorID:   report.CreatorID,
		Location: documentGeoPoint{
			Lat: report.Lattidude,
			Lon: report.Longidute,
		},
		Timestamp: report.Timestamp,
	}
}

// IndexReports snapshots every report into a fresh index and drops the older
// snapshots once the new one is queued.
func IndexReports(ctx context.Context, source ReportLister) (string, error) {
	indexName := fmt.Sprintf("%s%d", reportsIndexPrefix, time.Now().Unix())

	reports, err := source.Reports(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching reports: %w", err)
	}

	if err := createReportIndex(ctx, indexName); err != nil {
		return "", err
	}

	for _, report := range reports {
		documentBytes, _ := json.Marshal(newReportDocument(report))
		elastic_client.IndexRequest(indexName, bytes.NewReader(documentBytes))
	}

	log.Info().Str("index", indexName).Int("length", len(reports)).Msg("Queued reports for indexing")

	if err := deleteOldIndexes(ctx, reportsIndexPrefix+"*", indexName); err != nil {
		return indexName, err
	}

	return indexName, nil
}

const reportIndexMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 1
	},
	"mappings": {
		"properties": {
			"id": {
				"type": "long"
			},
			"route_name": {
				"type": "text",
				"fields": {
					"keyword": {
						"type": "keyword",
						"ignore_above": 256
					}
				}
			},
			"description": {
				"type": "text",
				"fields": {
					"search_as_you_type": {
						"type": "search_as_you_type"
					}
				}
			},
			"verified": {
				"type": "keyword"
			},
			"likes": {
				"type": "integer"
			},
			"dislikes": {
				"type": "integer"
			},
			"creator_id": {
				"type": "long"
			},
			"location": {
				"type": "geo_point"
			},
			"timestamp": {
				"type": "date",
				"format": "epoch_second"
			}
		}
	}
}`

func createReportIndex(ctx context.Context, indexName string) error {
	indexReq := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(reportIndexMapping),
	}

	resp, err := indexReq.Do(ctx, elastic_client.Client)
	if err != nil {
		return fmt.Errorf("creating index %s: %w", indexName, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		responseBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("creating index %s: %s %s", indexName, resp.Status(), responseBytes)
	}

	return nil
}
