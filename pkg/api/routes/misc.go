package routes

import (
	"errors"
	"fmt"

	"github.com/Is0meone/TransitTracker/pkg/apiclient"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
)

// reduce marshals value through sheriff with the basic group, adding the
// detailed group when ?detail=detailed is set.
func reduce(c *fiber.Ctx, name string, value interface{}) error {
	groups := []string{"basic"}
	if c.Query("detail") == "detailed" {
		groups = append(groups, "detailed")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, value)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": fmt.Sprintf("Sheriff could not reduce %s", name),
		})
	}

	return c.JSON(reduced)
}

// upstreamError answers for a failed call to the TransitTracker API. A 404
// upstream stays a 404, anything else is a bad gateway.
func upstreamError(c *fiber.Ctx, err error, message string) error {
	var statusError *apiclient.StatusError
	if errors.As(err, &statusError) && statusError.Code == fiber.StatusNotFound {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": message,
		})
	}

	log.Warn().Err(err).Str("path", c.Path()).Msg(message)

	c.SendStatus(fiber.StatusBadGateway)
	return c.JSON(fiber.Map{
		"error": message,
	})
}
