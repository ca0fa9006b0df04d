package events

import (
	"encoding/json"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/redis_client"
	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

const QueueName = "transittracker-events"

type Publisher interface {
	Publish(event Event)
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(Event) {}

// QueuePublisher pushes events onto the redis queue read by the events consumer.
type QueuePublisher struct {
	queue rmq.Queue
}

func NewQueuePublisher(connection rmq.Connection) (*QueuePublisher, error) {
	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, err
	}

	return &QueuePublisher{queue: queue}, nil
}

func (p *QueuePublisher) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to encode event")
		return
	}

	if err := p.queue.PublishBytes(eventBytes); err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to publish event")
	}
}

// NewPublisher uses the shared queue connection when redis is set up and drops
// events otherwise.
func NewPublisher() Publisher {
	if redis_client.QueueConnection == nil {
		return NoopPublisher{}
	}

	publisher, err := NewQueuePublisher(redis_client.QueueConnection)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open events queue, events will be dropped")
		return NoopPublisher{}
	}

	return publisher
}
