package routes

import (
	"context"
	"errors"

	"github.com/Is0meone/TransitTracker/pkg/events"
	"github.com/Is0meone/TransitTracker/pkg/scene"
	"github.com/Is0meone/TransitTracker/pkg/tracker"
	"github.com/gofiber/fiber/v2"
)

const recentReportsCount = 6

type ReportsService interface {
	Reports(ctx context.Context) ([]tracker.Report, error)
	CreateReport(ctx context.Context, report tracker.NewReport) (*tracker.Report, error)
}

type RouteReportsSource interface {
	ReportsForRoute(ctx context.Context, line string) ([]tracker.Report, error)
}

type reportsHandler struct {
	service   ReportsService
	byRoute   RouteReportsSource
	publisher events.Publisher
}

func ReportsRouter(router fiber.Router, service ReportsService, byRoute RouteReportsSource, publisher events.Publisher) {
	handler := &reportsHandler{
		service:   service,
		byRoute:   byRoute,
		publisher: publisher,
	}

	router.Get("/", handler.listReports)
	router.Get("/recent", handler.recentReports)
	router.Get("/route/:name", handler.routeReports)
	router.Post("/", handler.createReport)
}

type reportsListing struct {
	Reports  []tracker.Report       `json:"reports" groups:"basic"`
	Counters tracker.ReportCounters `json:"counters" groups:"basic"`
	Layer    scene.ReportLayer      `json:"layer" groups:"basic"`
}

func (h *reportsHandler) listReports(c *fiber.Ctx) error {
	var filter *tracker.ReportFilter
	if filterQuery := c.Query("filter"); filterQuery != "" {
		var err error
		filter, err = tracker.CompileReportFilter(filterQuery)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	reports, err := h.service.Reports(c.UserContext())
	if err != nil {
		return upstreamError(c, err, "Could not fetch reports")
	}

	visible := tracker.FilterReports(reports, c.Query("search"))
	if filter != nil {
		visible, err = filter.Apply(visible)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}
	if visible == nil {
		visible = []tracker.Report{}
	}

	return reduce(c, "reports", reportsListing{
		Reports:  visible,
		Counters: tracker.CountReports(reports),
		Layer:    scene.NewReportLayer(visible),
	})
}

func (h *reportsHandler) recentReports(c *fiber.Ctx) error {
	reports, err := h.service.Reports(c.UserContext())
	if err != nil {
		return upstreamError(c, err, "Could not fetch reports")
	}

	return reduce(c, "recent reports", tracker.RecentSummaries(reports, recentReportsCount))
}

func (h *reportsHandler) routeReports(c *fiber.Ctx) error {
	reports, err := h.byRoute.ReportsForRoute(c.UserContext(), c.Params("name"))
	if err != nil {
		return upstreamError(c, err, "Could not fetch reports for route")
	}
	if reports == nil {
		reports = []tracker.Report{}
	}

	return reduce(c, "route reports", reports)
}

func (h *reportsHandler) createReport(c *fiber.Ctx) error {
	var form tracker.NewReportForm
	if err := c.BodyParser(&form); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	newReport, err := form.Build()
	if err != nil {
		message := err.Error()
		if errors.Is(err, tracker.ErrInvalidCoordinates) {
			message = "Latitude and longitude must be numbers"
		}

		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": message,
		})
	}

	created, err := h.service.CreateReport(c.UserContext(), newReport)

	h.publisher.Publish(events.Event{
		Type:       events.EventTypeReportCreated,
		Line:       newReport.RouteName,
		Success:    err == nil,
		FailReason: errorText(err),
	})

	if err != nil {
		return upstreamError(c, err, "Could not create report")
	}

	c.Status(fiber.StatusCreated)
	if created == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"report":  newReport,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"report":  created,
	})
}

func errorText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
