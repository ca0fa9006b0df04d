package indexer

import (
	"errors"

	"github.com/Is0meone/TransitTracker/pkg/apiclient"
	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/Is0meone/TransitTracker/pkg/elastic_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "indexer",
		Usage: "Indexes data into Elasticsearch",
		Subcommands: []*cli.Command{
			{
				Name:  "reports",
				Usage: "do an index of the community reports",
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := appConfig.Validate(); err != nil {
						return err
					}
					if !appConfig.Elasticsearch.Enabled() {
						return errors.New("elasticsearch configuration not set")
					}

					if err := elastic_client.Connect(appConfig.Elasticsearch); err != nil {
						return err
					}

					indexName, err := IndexReports(c.Context, apiclient.New(appConfig.API))
					if err != nil {
						return err
					}

					elastic_client.WaitUntilQueueEmpty()

					log.Info().Str("index", indexName).Msg("Index queue emptied")

					return nil
				},
			},
		},
	}
}
