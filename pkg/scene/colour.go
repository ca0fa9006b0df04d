package scene

import (
	"strings"

	"github.com/Is0meone/TransitTracker/pkg/tracker"
)

type Colour string

const (
	ColourGreen  Colour = "green"
	ColourBlue   Colour = "blue"
	ColourOrange Colour = "orange"
	ColourPurple Colour = "purple"
	ColourGray   Colour = "gray"
)

// colourRule matches on travel mode and, when set, vehicle type. Rules are
// checked in order and the first match wins.
type colourRule struct {
	TravelMode  tracker.TravelMode
	VehicleType tracker.VehicleType
	AnyVehicle  bool

	Colour Colour
}

var colourRules = []colourRule{
	{TravelMode: tracker.TravelModeWalking, AnyVehicle: true, Colour: ColourGreen},
	{TravelMode: tracker.TravelModeTransit, VehicleType: tracker.VehicleTypeBus, Colour: ColourBlue},
	{TravelMode: tracker.TravelModeTransit, VehicleType: tracker.VehicleTypeTram, Colour: ColourOrange},
	{TravelMode: tracker.TravelModeTransit, AnyVehicle: true, Colour: ColourPurple},
}

func (r *colourRule) matches(step *tracker.Step) bool {
	if step.TravelMode != r.TravelMode {
		return false
	}
	if r.AnyVehicle {
		return true
	}

	return step.Transit != nil && step.Transit.VehicleType == r.VehicleType
}

// ColourForStep picks the path colour for a step. Unknown travel modes are gray.
func ColourForStep(step tracker.Step) Colour {
	for i := range colourRules {
		if colourRules[i].matches(&step) {
			return colourRules[i].Colour
		}
	}

	return ColourGray
}

type MarkerStyle struct {
	Stroke      string  `json:"stroke" groups:"basic"`
	Fill        string  `json:"fill" groups:"basic"`
	Radius      int     `json:"radius" groups:"detailed"`
	Weight      int     `json:"weight" groups:"detailed"`
	FillOpacity float64 `json:"fill_opacity" groups:"detailed"`
}

var verificationColours = map[tracker.Verification]string{
	tracker.VerificationPositive:   "#ef4444",
	tracker.VerificationUnverified: "#f59e0b",
	tracker.VerificationNegative:   "#10b981",
}

// VerificationStyle is the circle marker style for a report verification value.
// Values outside the known three get the slate fallback.
func VerificationStyle(verification tracker.Verification) MarkerStyle {
	style := MarkerStyle{
		Stroke:      "#64748b",
		Fill:        "#94a3b8",
		Radius:      8,
		Weight:      2,
		FillOpacity: 0.8,
	}

	if colour, ok := verificationColours[tracker.Verification(strings.ToLower(strings.TrimSpace(string(verification))))]; ok {
		style.Stroke = colour
		style.Fill = colour
	}

	return style
}
