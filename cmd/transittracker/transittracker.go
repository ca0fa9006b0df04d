package main

import (
	"os"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/api"
	"github.com/Is0meone/TransitTracker/pkg/apiclient"
	"github.com/Is0meone/TransitTracker/pkg/events"
	"github.com/Is0meone/TransitTracker/pkg/indexer"
	"github.com/Is0meone/TransitTracker/pkg/tripview"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRANSITTRACKER_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRANSITTRACKER_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "transittracker",
		Description: "Single binary for TransitTracker - trip view API, CLI tools and the activity archive",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"TRANSITTRACKER_CONFIG"},
			},
		},

		Commands: []*cli.Command{
			api.RegisterCLI(),
			tripview.RegisterCLI(),
			apiclient.RegisterCLI(),
			events.RegisterCLI(),
			indexer.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
