package stats

import (
	"context"
	"sync"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/events"
	"github.com/rs/zerolog/log"
)

type ActivityStats struct {
	Sessions       int       `json:"sessions" groups:"basic"`
	TripsPlanned   int64     `json:"trips_planned" groups:"basic"`
	ReportsFetched int64     `json:"reports_fetched" groups:"basic"`
	VotesCast      int64     `json:"votes_cast" groups:"basic"`
	ReportsCreated int64     `json:"reports_created" groups:"basic"`
	UpdatedAt      time.Time `json:"updated_at" groups:"basic"`
}

type SessionCounter interface {
	Len() int
}

type EventCounter interface {
	CountEvents(ctx context.Context, eventType events.EventType) (int64, error)
}

// Collector keeps a periodically refreshed view of the live sessions and the
// archived activity. Events is nil when no archive is configured.
type Collector struct {
	Sessions SessionCounter
	Events   EventCounter

	mutex   sync.RWMutex
	current ActivityStats
}

func (c *Collector) Update(ctx context.Context) {
	updated := ActivityStats{
		UpdatedAt: time.Now(),
	}

	if c.Sessions != nil {
		updated.Sessions = c.Sessions.Len()
	}

	if c.Events != nil {
		counters := map[events.EventType]*int64{
			events.EventTypeTripPlanned:    &updated.TripsPlanned,
			events.EventTypeReportsFetched: &updated.ReportsFetched,
			events.EventTypeVoteCast:       &updated.VotesCast,
			events.EventTypeReportCreated:  &updated.ReportsCreated,
		}

		for eventType, counter := range counters {
			count, err := c.Events.CountEvents(ctx, eventType)
			if err != nil {
				log.Error().Err(err).Str("type", string(eventType)).Msg("Failed to count events")
				continue
			}
			*counter = count
		}
	}

	c.mutex.Lock()
	c.current = updated
	c.mutex.Unlock()
}

func (c *Collector) Current() ActivityStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.current
}

func (c *Collector) Run(ctx context.Context, interval time.Duration) {
	for {
		c.Update(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}
