package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/Is0meone/TransitTracker/pkg/events"
	"github.com/stretchr/testify/assert"
)

type fixedSessions int

func (f fixedSessions) Len() int { return int(f) }

type fixedEvents map[events.EventType]int64

func (f fixedEvents) CountEvents(ctx context.Context, eventType events.EventType) (int64, error) {
	count, ok := f[eventType]
	if !ok {
		return 0, errors.New("unknown")
	}
	return count, nil
}

func TestCollector(t *testing.T) {
	collector := &Collector{
		Sessions: fixedSessions(3),
		Events: fixedEvents{
			events.EventTypeTripPlanned: 10,
			events.EventTypeVoteCast:    4,
		},
	}

	collector.Update(context.Background())

	current := collector.Current()
	assert.Equal(t, 3, current.Sessions)
	assert.Equal(t, int64(10), current.TripsPlanned)
	assert.Equal(t, int64(4), current.VotesCast)
	assert.Zero(t, current.ReportsCreated)
	assert.False(t, current.UpdatedAt.IsZero())
}

func TestCollector_WithoutArchive(t *testing.T) {
	collector := &Collector{Sessions: fixedSessions(1)}
	collector.Update(context.Background())

	assert.Equal(t, 1, collector.Current().Sessions)
	assert.Zero(t, collector.Current().TripsPlanned)
}
