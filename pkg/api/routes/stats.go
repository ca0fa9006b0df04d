package routes

import (
	"github.com/Is0meone/TransitTracker/pkg/api/stats"
	"github.com/gofiber/fiber/v2"
)

func StatsRouter(router fiber.Router, collector *stats.Collector) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(collector.Current())
	})
}
