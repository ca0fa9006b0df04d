package tracker

import (
	"errors"
	"fmt"
)

var ErrTransitMismatch = errors.New("transit details must be present exactly when travel mode is TRANSIT")

type TransitInfo struct {
	LineName      string      `json:"line_name" groups:"basic"`
	LineShortName string      `json:"line_short_name,omitempty" groups:"basic"`
	VehicleType   VehicleType `json:"vehicle_type" groups:"basic"`
	Headsign      string      `json:"headsign" groups:"basic"`
	NumStops      int         `json:"num_stops" groups:"detailed"`

	DepartureStop string `json:"departure_stop" groups:"basic"`
	ArrivalStop   string `json:"arrival_stop" groups:"basic"`
	DepartureTime int64  `json:"departure_time" groups:"basic"`
	ArrivalTime   int64  `json:"arrival_time" groups:"basic"`
}

// LineKey is the identifier used to correlate a transit leg with its reports.
func (t *TransitInfo) LineKey() string {
	if t == nil {
		return ""
	}
	if t.LineName != "" {
		return t.LineName
	}

	return t.LineShortName
}

type Step struct {
	TravelMode       TravelMode `json:"travel_mode" groups:"basic"`
	HTMLInstructions string     `json:"html_instructions" groups:"detailed"`
	Instructions     string     `json:"instructions" groups:"basic"`

	DistanceM    int    `json:"distance_m" groups:"detailed"`
	DistanceText string `json:"distance_text" groups:"basic"`
	DurationS    int    `json:"duration_s" groups:"detailed"`
	DurationText string `json:"duration_text" groups:"basic"`

	StartLocation Location   `json:"start_location" groups:"detailed"`
	EndLocation   Location   `json:"end_location" groups:"detailed"`
	Path          []Location `json:"path" groups:"basic"`

	Transit *TransitInfo `json:"transit,omitempty" groups:"basic"`
}

func (s *Step) IsTransit() bool {
	return s.TravelMode == TravelModeTransit
}

// LineKey is empty for anything that is not a transit leg.
func (s *Step) LineKey() string {
	if !s.IsTransit() {
		return ""
	}

	return s.Transit.LineKey()
}

func (s *Step) Validate() error {
	if s.IsTransit() != (s.Transit != nil) {
		return fmt.Errorf("%w (travel_mode %q)", ErrTransitMismatch, s.TravelMode)
	}

	return nil
}
