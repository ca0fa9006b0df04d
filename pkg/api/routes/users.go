package routes

import (
	"context"
	"strconv"

	"github.com/Is0meone/TransitTracker/pkg/tracker"
	"github.com/gofiber/fiber/v2"
)

type UsersService interface {
	User(ctx context.Context, id int64) (*tracker.User, error)
}

func UsersRouter(router fiber.Router, service UsersService) {
	router.Get("/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "User ID must be a number",
			})
		}

		user, err := service.User(c.UserContext(), id)
		if err != nil {
			return upstreamError(c, err, "Could not find User matching User ID")
		}

		return reduce(c, "user", user)
	})
}
