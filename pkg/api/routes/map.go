package routes

import (
	"github.com/Is0meone/TransitTracker/pkg/scene"
	"github.com/gofiber/fiber/v2"
)

func MapRouter(router fiber.Router, surface *scene.Surface) {
	router.Get("/", func(c *fiber.Ctx) error {
		return reduce(c, "map", surface.Settings())
	})
}
