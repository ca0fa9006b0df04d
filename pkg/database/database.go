package database

import (
	"context"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

// Connect opens the MongoDB connection used by the activity archive. Without a
// connection string configured the archive is disabled and nothing is opened.
func Connect(mongoConfig config.MongoDBConfig) error {
	if !mongoConfig.Enabled() {
		log.Info().Msg("Skipping MongoDB setup")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoConfig.Connection))
	if err != nil {
		return err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: client.Database(mongoConfig.Database),
	}

	createIndexes()

	log.Info().Str("database", mongoConfig.Database).Msg("MongoDB client setup")

	return nil
}

func Connected() bool {
	return MongoGlobalInstance != nil
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}
