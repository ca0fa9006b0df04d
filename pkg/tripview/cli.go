package tripview

import (
	"fmt"

	"github.com/Is0meone/TransitTracker/pkg/apiclient"
	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/Is0meone/TransitTracker/pkg/redis_client"
	"github.com/Is0meone/TransitTracker/pkg/reportcache"
	"github.com/Is0meone/TransitTracker/pkg/util"
	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "trip",
		Usage: "Plan trips and correlate them with incident reports",
		Subcommands: []*cli.Command{
			{
				Name:  "plan",
				Usage: "plan a trip and list the reports along its transit lines",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "origin",
						Usage:    "Trip origin",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "destination",
						Usage:    "Trip destination",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "Print the full rendered scene",
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

					client := apiclient.New(appConfig.API)
					fetcher := reportcache.New(client, redis_client.Client, appConfig.ReportCache.Expiration)

					session := New(client, fetcher, client,
						WithID("cli"),
						WithMaxConcurrentFetches(appConfig.Sessions.MaxConcurrentFetches),
					)
					defer session.Close()

					if err := session.Plan(c.Context, c.String("origin"), c.String("destination")); err != nil {
						return err
					}
					session.Wait()

					snapshot := session.Snapshot()
					if snapshot.TripError != "" {
						fmt.Printf("No route: %s\n", snapshot.TripError)
					}

					itinerary := session.Itinerary()
					for _, entry := range itinerary.Entries {
						fmt.Printf("%2d. [%s] %s (%s, %s)", entry.Index+1, entry.TravelMode, entry.Instructions, entry.DistanceText, entry.DurationText)
						if entry.Line != "" {
							fmt.Printf(" line %s to %s, %s -> %s", entry.Line, entry.Headsign, entry.DepartureStop, entry.ArrivalStop)
						}
						fmt.Println()
					}

					rendered := session.Scene()
					for _, marker := range rendered.Markers() {
						fmt.Printf("Report %d at %.5f,%.5f: %s [%s] %s\n",
							marker.ReportID, marker.Position.Lat, marker.Position.Lng,
							util.TrimString(marker.Popup.Description, 60), marker.Popup.Verified, marker.Popup.When)
					}

					if c.Bool("debug") {
						pretty.Println(snapshot.LineStates)
						pretty.Println(rendered)
					}

					return nil
				},
			},
		},
	}
}
