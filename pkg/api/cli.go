package api

import (
	"os/signal"
	"syscall"

	"github.com/Is0meone/TransitTracker/pkg/api/stats"
	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/Is0meone/TransitTracker/pkg/database"
	"github.com/Is0meone/TransitTracker/pkg/events"
	"github.com/Is0meone/TransitTracker/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the trip view web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := appConfig.Validate(); err != nil {
						return err
					}

					if err := redis_client.Connect(appConfig.Redis); err != nil {
						return err
					}
					if err := database.Connect(appConfig.MongoDB); err != nil {
						return err
					}

					var eventCounter stats.EventCounter
					if database.Connected() {
						eventCounter = &events.MongoEventStore{Collection: database.GetCollection(database.EventsCollection)}
					}

					ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
					defer stop()

					deps := NewDependencies(appConfig, events.NewPublisher(), eventCounter)

					return SetupServer(ctx, c.String("listen"), deps)
				},
			},
		},
	}
}
