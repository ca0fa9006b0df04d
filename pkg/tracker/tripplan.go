package tracker

import "github.com/Is0meone/TransitTracker/pkg/util"

type TripPlan struct {
	Status          string `json:"status" groups:"basic"`
	DelayS          int    `json:"delay_s" groups:"basic"`
	PredictedDelayS int    `json:"predicted_delay_s" groups:"basic"`
	DepartureTime   int64  `json:"departure_time" groups:"basic"`

	Steps []Step `json:"steps" groups:"basic"`
}

func (p *TripPlan) Empty() bool {
	return p == nil || len(p.Steps) == 0
}

// TransitLineKeys lists every distinct line key in step order.
func (p *TripPlan) TransitLineKeys() []string {
	if p == nil {
		return nil
	}

	var keys []string
	for i := range p.Steps {
		keys = append(keys, p.Steps[i].LineKey())
	}

	return util.RemoveDuplicateStrings(keys, nil)
}
