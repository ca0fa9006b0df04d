package api

import (
	"context"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/api/routes"
	"github.com/Is0meone/TransitTracker/pkg/api/stats"
	"github.com/Is0meone/TransitTracker/pkg/apiclient"
	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/Is0meone/TransitTracker/pkg/events"
	"github.com/Is0meone/TransitTracker/pkg/redis_client"
	"github.com/Is0meone/TransitTracker/pkg/reportcache"
	"github.com/Is0meone/TransitTracker/pkg/scene"
	"github.com/Is0meone/TransitTracker/pkg/tripview"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RemoteAPI is everything the web API asks of the TransitTracker API.
type RemoteAPI interface {
	routes.ReportsService
	routes.UsersService
	routes.AssistantService
}

type Dependencies struct {
	Remote         RemoteAPI
	RouteReports   routes.RouteReportsSource
	Sessions       *tripview.Store
	Surface        *scene.Surface
	Publisher      events.Publisher
	StatsCollector *stats.Collector
}

func NewApp(deps Dependencies) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.MapRouter(group.Group("/map"), deps.Surface)

	routes.SessionsRouter(group.Group("/sessions"), deps.Sessions)

	routes.ReportsRouter(group.Group("/reports"), deps.Remote, deps.RouteReports, deps.Publisher)

	routes.UsersRouter(group.Group("/users"), deps.Remote)

	routes.AssistantRouter(group.Group("/assistant"), deps.Remote)

	routes.StatsRouter(group.Group("/stats"), deps.StatsCollector)

	return webApp
}

// SetupServer runs the web API until it fails or ctx is cancelled. Sessions are
// swept every minute while it runs.
func SetupServer(ctx context.Context, listen string, deps Dependencies) error {
	webApp := NewApp(deps)

	go deps.Sessions.Run(ctx, time.Minute)
	go deps.StatsCollector.Run(ctx, time.Minute)

	go func() {
		<-ctx.Done()
		if err := webApp.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("Web API shutdown failed")
		}
	}()

	return webApp.Listen(listen)
}

// NewDependencies wires the remote client, the shared report cache and the
// session store together. eventCounter may be nil when no archive is configured.
func NewDependencies(appConfig *config.Config, publisher events.Publisher, eventCounter stats.EventCounter) Dependencies {
	client := apiclient.New(appConfig.API)
	routeReports := reportcache.New(client, redis_client.Client, appConfig.ReportCache.Expiration)

	surface := scene.NewSurface(appConfig.Map)
	surface.Mount()

	sessions := tripview.NewStore(appConfig.Sessions.TTL, func(id string) *tripview.Session {
		return tripview.New(client, routeReports, client,
			tripview.WithID(id),
			tripview.WithMaxConcurrentFetches(appConfig.Sessions.MaxConcurrentFetches),
			tripview.WithPublisher(publisher),
		)
	})

	return Dependencies{
		Remote:       client,
		RouteReports: routeReports,
		Sessions:     sessions,
		Surface:      surface,
		Publisher:    publisher,
		StatsCollector: &stats.Collector{
			Sessions: sessions,
			Events:   eventCounter,
		},
	}
}
