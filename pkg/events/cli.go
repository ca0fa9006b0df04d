package events

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/Is0meone/TransitTracker/pkg/consumer"
	"github.com/Is0meone/TransitTracker/pkg/database"
	"github.com/Is0meone/TransitTracker/pkg/elastic_client"
	"github.com/Is0meone/TransitTracker/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Provides the activity events archive",
		Subcommands: []*cli.Command{
			{
				Name:  "consume",
				Usage: "archive activity events into MongoDB and Elasticsearch",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "consumers",
						Value: 5,
						Usage: "Number of queue consumers",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Value: 20,
						Usage: "Events fetched per batch",
					},
					&cli.StringFlag{
						Name:  "stats-listen",
						Value: ":3333",
						Usage: "Listen address for the queue stats server, empty to disable",
					},
				},
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if err := redis_client.Connect(appConfig.Redis); err != nil {
						return err
					}
					if err := database.Connect(appConfig.MongoDB); err != nil {
						return err
					}
					if err := elastic_client.Connect(appConfig.Elasticsearch); err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       QueueName,
						NumberConsumers: c.Int("consumers"),
						BatchSize:       c.Int("batch-size"),
						Timeout:         2 * time.Second,
						Consumer:        NewBatchConsumer(),
						StatsListen:     c.String("stats-listen"),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish
					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
			{
				Name:  "test-event",
				Usage: "publish a test event",
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if err := redis_client.Connect(appConfig.Redis); err != nil {
						return err
					}

					publisher, err := NewQueuePublisher(redis_client.QueueConnection)
					if err != nil {
						log.Fatal().Err(err).Msg("Failed to start event queue")
					}

					publisher.Publish(Event{
						Type:        EventTypeTripPlanned,
						Origin:      "Nowa Huta Centrum",
						Destination: "Rynek Główny",
						Success:     true,
						Count:       2,
					})

					return nil
				},
			},
		},
	}
}
