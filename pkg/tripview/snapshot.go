package tripview

import "github.com/Is0meone/TransitTracker/pkg/tracker"

type Snapshot struct {
	ID          string            `json:"id" groups:"basic"`
	State       State             `json:"state" groups:"basic"`
	Origin      string            `json:"origin" groups:"basic"`
	Destination string            `json:"destination" groups:"basic"`
	Plan        *tracker.TripPlan `json:"plan,omitempty" groups:"detailed"`
	TripError   string            `json:"trip_error,omitempty" groups:"basic"`

	ReportsByLine map[string][]tracker.Report `json:"reports_by_line" groups:"detailed"`
	LineStates    map[string]LineState        `json:"line_states" groups:"basic"`
	Votes         tracker.VoteRecord          `json:"votes" groups:"basic"`
}

func (s *Snapshot) StepCount() int {
	if s.Plan == nil {
		return 0
	}

	return len(s.Plan.Steps)
}
