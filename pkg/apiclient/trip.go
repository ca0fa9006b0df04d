package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Is0meone/TransitTracker/pkg/tracker"
	"github.com/Is0meone/TransitTracker/pkg/util"
	"github.com/rs/zerolog/log"
)

var ErrNoSteps = errors.New("trip response has no steps")

type tripRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type tripResponse struct {
	Status          string          `json:"status"`
	DelayS          int             `json:"delay_s"`
	PredictedDelayS int             `json:"predicted_delay_s"`
	DepartureTime   int64           `json:"departure_time"`
	Steps           *[]tracker.Step `json:"steps"`
}

// PlanTrip asks the trip planner for a route. Any failure past input validation
// still yields an empty plan alongside the error, so callers can render "no route".
func (c *Client) PlanTrip(ctx context.Context, origin string, destination string) (*tracker.TripPlan, error) {
	if origin == "" || destination == "" {
		return nil, ErrMissingTripEndpoints
	}

	var response tripResponse
	err := c.doJSON(ctx, http.MethodPost, c.url("/trip"), tripRequest{
		Origin:      origin,
		Destination: destination,
	}, &response)
	if err != nil {
		return &tracker.TripPlan{}, fmt.Errorf("planning trip: %w", err)
	}

	plan := &tracker.TripPlan{
		Status:          response.Status,
		DelayS:          response.DelayS,
		PredictedDelayS: response.PredictedDelayS,
		DepartureTime:   response.DepartureTime,
	}

	if response.Steps == nil {
		return plan, ErrNoSteps
	}

	steps := *response.Steps
	util.InPlaceFilter(&steps, func(step tracker.Step) bool {
		if err := step.Validate(); err != nil {
			log.Warn().Err(err).Str("origin", origin).Str("destination", destination).Msg("Dropping invalid trip step")
			return false
		}
		return true
	})
	plan.Steps = steps

	return plan, nil
}
