package scene

import (
	"time"

	"github.com/Is0meone/TransitTracker/pkg/tracker"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

const missingTime = "—"

// TimeLayout is used for report timestamps in popups.
const TimeLayout = "02.01.2006, 15:04:05"

type Scene struct {
	Segments []Segment `json:"segments" groups:"basic"`
}

// Markers flattens every report marker in segment order.
func (s *Scene) Markers() []Marker {
	var markers []Marker
	for _, segment := range s.Segments {
		markers = append(markers, segment.Markers...)
	}

	return markers
}

type Segment struct {
	Index      int                `json:"index" groups:"basic"`
	TravelMode tracker.TravelMode `json:"travel_mode" groups:"basic"`
	Colour     Colour             `json:"colour" groups:"basic"`
	Path       []tracker.Location `json:"path" groups:"basic"`
	Label      *Label             `json:"label,omitempty" groups:"basic"`
	Markers    []Marker           `json:"markers,omitempty" groups:"basic"`
}

type Label struct {
	Position     tracker.Location `json:"position" groups:"basic"`
	Instructions string           `json:"instructions" groups:"basic"`
	Line         string           `json:"line" groups:"basic"`
	Permanent    bool             `json:"permanent" groups:"detailed"`
}

type Marker struct {
	ReportID int64            `json:"report_id" groups:"basic"`
	Position tracker.Location `json:"position" groups:"basic"`
	Style    MarkerStyle      `json:"style" groups:"basic"`
	Popup    Popup            `json:"popup" groups:"basic"`
}

type Popup struct {
	RouteName   string               `json:"route_name" groups:"basic"`
	Description string               `json:"description" groups:"basic"`
	Likes       int                  `json:"likes" groups:"basic"`
	Dislikes    int                  `json:"dislikes" groups:"basic"`
	Verified    tracker.Verification `json:"verified" groups:"basic"`
	When        string               `json:"time" groups:"basic"`
}

// LabelAnchor is the middle point of a path, path[len/2].
func LabelAnchor(path []tracker.Location) (tracker.Location, bool) {
	if len(path) == 0 {
		return tracker.Location{}, false
	}

	return path[len(path)/2], true
}

// Build renders the steps of a trip and the reports known for its lines into a
// scene. It does not keep any state between calls.
func Build(steps []tracker.Step, reportsByLine map[string][]tracker.Report) Scene {
	scene := Scene{
		Segments: make([]Segment, 0, len(steps)),
	}

	for index, step := range steps {
		segment := Segment{
			Index:      index,
			TravelMode: step.TravelMode,
			Colour:     ColourForStep(step),
			Path:       step.Path,
		}

		if step.IsTransit() {
			if anchor, ok := LabelAnchor(step.Path); ok {
				segment.Label = &Label{
					Position:     anchor,
					Instructions: step.Instructions,
					Line:         step.LineKey(),
					Permanent:    true,
				}
			}

			if lineKey := step.LineKey(); lineKey != "" {
				for _, report := range reportsByLine[lineKey] {
					segment.Markers = append(segment.Markers, NewMarker(report))
				}
			}
		}

		scene.Segments = append(scene.Segments, segment)
	}

	return scene
}

func NewMarker(report tracker.Report) Marker {
	return Marker{
		ReportID: report.ID,
		Position: report.Location(),
		Style:    VerificationStyle(report.Verified),
		Popup:    NewPopup(report),
	}
}

func NewPopup(report tracker.Report) Popup {
	var popup Popup

	if err := copier.Copy(&popup, &report); err != nil {
		log.Error().Err(err).Int64("report", report.ID).Msg("Failed to copy report into popup")
	}

	popup.When = FormatTimestamp(report.Timestamp)

	return popup
}

// FormatTimestamp renders unix seconds in local time, or a dash when missing.
func FormatTimestamp(timestamp *int64) string {
	if timestamp == nil {
		return missingTime
	}

	return time.Unix(*timestamp, 0).Format(TimeLayout)
}
