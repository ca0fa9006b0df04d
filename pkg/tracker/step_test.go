package tracker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepValidate(t *testing.T) {
	t.Run("walking without transit", func(t *testing.T) {
		step := Step{TravelMode: TravelModeWalking}
		assert.NoError(t, step.Validate())
	})

	t.Run("transit with details", func(t *testing.T) {
		step := Step{TravelMode: TravelModeTransit, Transit: &TransitInfo{LineName: "52A"}}
		assert.NoError(t, step.Validate())
	})

	t.Run("transit missing details", func(t *testing.T) {
		step := Step{TravelMode: TravelModeTransit}
		assert.ErrorIs(t, step.Validate(), ErrTransitMismatch)
	})

	t.Run("walking carrying details", func(t *testing.T) {
		step := Step{TravelMode: TravelModeWalking, Transit: &TransitInfo{LineName: "4"}}
		assert.ErrorIs(t, step.Validate(), ErrTransitMismatch)
	})
}

func TestStepLineKey(t *testing.T) {
	assert.Equal(t, "52A", (&Step{TravelMode: TravelModeTransit, Transit: &TransitInfo{LineName: "52A", LineShortName: "52"}}).LineKey())
	assert.Equal(t, "52", (&Step{TravelMode: TravelModeTransit, Transit: &TransitInfo{LineShortName: "52"}}).LineKey())
	assert.Equal(t, "", (&Step{TravelMode: TravelModeWalking}).LineKey())
	assert.Equal(t, "", (&Step{TravelMode: TravelModeTransit}).LineKey())
}

func TestTripPlanTransitLineKeys(t *testing.T) {
	plan := TripPlan{
		Steps: []Step{
			{TravelMode: TravelModeWalking},
			{TravelMode: TravelModeTransit, Transit: &TransitInfo{LineName: "52A"}},
			{TravelMode: TravelModeTransit, Transit: &TransitInfo{LineShortName: "4"}},
			{TravelMode: TravelModeTransit, Transit: &TransitInfo{LineName: "52A"}},
			{TravelMode: TravelModeTransit, Transit: &TransitInfo{}},
		},
	}

	assert.Equal(t, []string{"52A", "4"}, plan.TransitLineKeys())
	assert.False(t, plan.Empty())

	var nilPlan *TripPlan
	assert.True(t, nilPlan.Empty())
	assert.Nil(t, nilPlan.TransitLineKeys())
}

func TestTripPlanDecoding(t *testing.T) {
	body := `{
		"status": "OK",
		"delay_s": 120,
		"predicted_delay_s": 300,
		"departure_time": 1728000000,
		"steps": [
			{"travel_mode": "WALKING", "instructions": "Walk to Plac Centralny", "path": [{"lat": 50.07, "lng": 20.03}]},
			{"travel_mode": "TRANSIT", "instructions": "Bus towards Rynek", "path": [{"lat": 50.07, "lng": 20.03}, {"lat": 50.06, "lng": 19.94}],
			 "transit": {"line_name": "52A", "vehicle_type": "BUS", "num_stops": 6, "departure_time": 1728000300}}
		]
	}`

	var plan TripPlan
	require.NoError(t, json.Unmarshal([]byte(body), &plan))

	assert.Equal(t, 120, plan.DelayS)
	assert.Equal(t, 300, plan.PredictedDelayS)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, VehicleTypeBus, plan.Steps[1].Transit.VehicleType)
	assert.Equal(t, []float64{19.94, 50.06}, plan.Steps[1].Path[1].Coordinates())
}
