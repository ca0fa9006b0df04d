package routes

import (
	"context"
	"errors"

	"github.com/Is0meone/TransitTracker/pkg/apiclient"
	"github.com/gofiber/fiber/v2"
)

type AssistantService interface {
	Ask(ctx context.Context, message string) (string, error)
}

func AssistantRouter(router fiber.Router, service AssistantService) {
	router.Post("/", func(c *fiber.Ctx) error {
		var requestBody struct {
			Message string `json:"message"`
		}
		if err := c.BodyParser(&requestBody); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		answer, err := service.Ask(c.UserContext(), requestBody.Message)
		switch {
		case errors.Is(err, apiclient.ErrEmptyMessage):
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Message must not be empty",
			})
		case errors.Is(err, apiclient.ErrNoAgent):
			c.SendStatus(fiber.StatusServiceUnavailable)
			return c.JSON(fiber.Map{
				"error": "Assistant is not configured",
			})
		case err != nil:
			return upstreamError(c, err, "Assistant did not answer")
		}

		return c.JSON(fiber.Map{
			"answer": answer,
		})
	})
}
