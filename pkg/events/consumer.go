package events

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/database"
	"github.com/Is0meone/TransitTracker/pkg/elastic_client"
	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type EventStore interface {
	InsertEvents(ctx context.Context, events []Event) error
}

type MongoEventStore struct {
	Collection *mongo.Collection
}

func (s *MongoEventStore) InsertEvents(ctx context.Context, events []Event) error {
	documents := make([]interface{}, 0, len(events))
	for _, event := range events {
		documents = append(documents, event)
	}

	_, err := s.Collection.InsertMany(ctx, documents)
	return err
}

func (s *MongoEventStore) CountEvents(ctx context.Context, eventType EventType) (int64, error) {
	return s.Collection.CountDocuments(ctx, bson.M{"type": eventType})
}

type BatchConsumer struct {
	Store EventStore
	Index func(indexName string, document io.ReadSeeker)

	Timeout time.Duration
}

// NewBatchConsumer archives into whichever of MongoDB and Elasticsearch are connected.
func NewBatchConsumer() *BatchConsumer {
	consumer := &BatchConsumer{
		Timeout: 10 * time.Second,
	}

	if database.Connected() {
		consumer.Store = &MongoEventStore{Collection: database.GetCollection(database.EventsCollection)}
	}
	if elastic_client.Connected() {
		consumer.Index = elastic_client.IndexRequest
	}

	return consumer
}

func (c *BatchConsumer) Consume(batch rmq.Deliveries) {
	var events []Event
	var decoded rmq.Deliveries

	for _, delivery := range batch {
		var event Event
		if err := json.Unmarshal([]byte(delivery.Payload()), &event); err != nil {
			log.Error().Err(err).Msg("Failed to decode event")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject event")
			}
			continue
		}

		events = append(events, event)
		decoded = append(decoded, delivery)
	}

	if len(events) == 0 {
		return
	}

	if c.Store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
		defer cancel()

		if err := c.Store.InsertEvents(ctx, events); err != nil {
			log.Error().Err(err).Int("length", len(events)).Msg("Failed to archive events")

			for _, err := range decoded.Reject() {
				log.Error().Err(err).Msg("Failed to reject event")
			}
			return
		}
	}

	if c.Index != nil {
		for _, event := range events {
			eventBytes, _ := json.Marshal(event)
			c.Index(event.IndexName(), bytes.NewReader(eventBytes))
		}
	}

	for _, err := range decoded.Ack() {
		log.Error().Err(err).Msg("Failed to ack event")
	}

	log.Debug().Int("length", len(events)).Msg("Archived events")
}
