package redis_client

import (
	"context"

	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const queueConnectionTag = "transittracker"

// Connect opens the shared redis client and rmq connection. Redis is optional:
// with no address configured both globals stay nil.
func Connect(redisConfig config.RedisConfig) error {
	if !redisConfig.Enabled() {
		log.Info().Msg("Skipping Redis setup")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Address,
		Password: redisConfig.Password,
		DB:       redisConfig.Database,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	queueConnection, err := rmq.OpenConnectionWithRedisClient(queueConnectionTag, client, nil)
	if err != nil {
		return err
	}

	Client = client
	QueueConnection = queueConnection

	log.Info().Str("address", redisConfig.Address).Msg("Redis client setup")

	return nil
}

func Connected() bool {
	return Client != nil
}
