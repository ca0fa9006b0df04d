package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const EventsCollection = "events"

func createIndexes() {
	createEventsIndexes()
}

func createEventsIndexes() {
	eventsCollection := GetCollection(EventsCollection)
	eventsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "type", Value: 1}, {Key: "timestamp", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "sessionid", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "line", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(30 * 24 * 3600), // Expire after 30 days
		},
	}

	opts := options.CreateIndexes()
	_, err := eventsCollection.Indexes().CreateMany(context.Background(), eventsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
