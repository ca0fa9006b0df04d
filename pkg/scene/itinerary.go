package scene

import (
	"time"

	"github.com/Is0meone/TransitTracker/pkg/tracker"
	iso8601 "github.com/senseyeio/duration"
)

type Itinerary struct {
	Status          string `json:"status" groups:"basic"`
	DelayS          int    `json:"delay_s" groups:"basic"`
	PredictedDelayS int    `json:"predicted_delay_s" groups:"basic"`
	Delay           string `json:"delay" groups:"detailed"`
	DepartureTime   string `json:"departure_time" groups:"basic"`

	Entries []ItineraryEntry `json:"entries" groups:"basic"`
}

type ItineraryEntry struct {
	Index        int                `json:"index" groups:"basic"`
	TravelMode   tracker.TravelMode `json:"travel_mode" groups:"basic"`
	Colour       Colour             `json:"colour" groups:"basic"`
	Instructions string             `json:"instructions" groups:"basic"`
	DistanceText string             `json:"distance_text" groups:"basic"`
	DurationText string             `json:"duration_text" groups:"basic"`
	Duration     string             `json:"duration" groups:"detailed"`

	Line          string `json:"line,omitempty" groups:"basic"`
	Headsign      string `json:"headsign,omitempty" groups:"basic"`
	DepartureStop string `json:"departure_stop,omitempty" groups:"basic"`
	ArrivalStop   string `json:"arrival_stop,omitempty" groups:"basic"`
	DepartureTime string `json:"departure_time,omitempty" groups:"basic"`
	ArrivalTime   string `json:"arrival_time,omitempty" groups:"basic"`
	NumStops      int    `json:"num_stops,omitempty" groups:"detailed"`
}

// NewItinerary lays a trip out as the step by step list shown beside the map.
func NewItinerary(plan *tracker.TripPlan) Itinerary {
	itinerary := Itinerary{
		Entries: []ItineraryEntry{},
	}
	if plan == nil {
		return itinerary
	}

	itinerary.Status = plan.Status
	itinerary.DelayS = plan.DelayS
	itinerary.PredictedDelayS = plan.PredictedDelayS
	itinerary.Delay = ISODuration(plan.DelayS)
	if plan.DepartureTime != 0 {
		itinerary.DepartureTime = FormatTimestamp(&plan.DepartureTime)
	}

	for index, step := range plan.Steps {
		entry := ItineraryEntry{
			Index:        index,
			TravelMode:   step.TravelMode,
			Colour:       ColourForStep(step),
			Instructions: step.Instructions,
			DistanceText: step.DistanceText,
			DurationText: step.DurationText,
			Duration:     ISODuration(step.DurationS),
		}

		if step.IsTransit() {
			transit := step.Transit
			entry.Line = transit.LineKey()
			entry.Headsign = transit.Headsign
			entry.DepartureStop = transit.DepartureStop
			entry.ArrivalStop = transit.ArrivalStop
			entry.NumStops = transit.NumStops
			if transit.DepartureTime != 0 {
				entry.DepartureTime = clock(transit.DepartureTime)
			}
			if transit.ArrivalTime != 0 {
				entry.ArrivalTime = clock(transit.ArrivalTime)
			}
		}

		itinerary.Entries = append(itinerary.Entries, entry)
	}

	return itinerary
}

// ISODuration renders a number of seconds as an ISO-8601 duration such as PT1H5M.
func ISODuration(seconds int) string {
	negative := seconds < 0
	if negative {
		seconds = -seconds
	}

	d := iso8601.Duration{
		TH: seconds / 3600,
		TM: seconds % 3600 / 60,
		TS: seconds % 60,
	}

	if negative {
		return "-" + d.String()
	}

	return d.String()
}

func clock(unix int64) string {
	return time.Unix(unix, 0).Format("15:04")
}
