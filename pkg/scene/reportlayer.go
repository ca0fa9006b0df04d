package scene

import "github.com/Is0meone/TransitTracker/pkg/tracker"

type ReportLayer struct {
	Markers  []Marker               `json:"markers" groups:"basic"`
	Counters tracker.ReportCounters `json:"counters" groups:"basic"`
}

// NewReportLayer is the stand-alone reports map: one circle marker per report,
// with no trip underneath.
func NewReportLayer(reports []tracker.Report) ReportLayer {
	layer := ReportLayer{
		Markers:  make([]Marker, 0, len(reports)),
		Counters: tracker.CountReports(reports),
	}

	for _, report := range reports {
		layer.Markers = append(layer.Markers, NewMarker(report))
	}

	return layer
}
