package routes

import (
	"errors"

	"github.com/Is0meone/TransitTracker/pkg/apiclient"
	"github.com/Is0meone/TransitTracker/pkg/tracker"
	"github.com/Is0meone/TransitTracker/pkg/tripview"
	"github.com/gofiber/fiber/v2"
)

type sessionsHandler struct {
	store *tripview.Store
}

func SessionsRouter(router fiber.Router, store *tripview.Store) {
	handler := &sessionsHandler{store: store}

	router.Post("/", handler.createSession)
	router.Get("/:id", handler.getSession)
	router.Delete("/:id", handler.deleteSession)
	router.Post("/:id/trip", handler.planTrip)
	router.Post("/:id/lines/:line/reports", handler.fetchLineReports)
	router.Get("/:id/scene", handler.getScene)
	router.Get("/:id/itinerary", handler.getItinerary)
	router.Post("/:id/votes", handler.castVote)
}

func (h *sessionsHandler) session(c *fiber.Ctx) (*tripview.Session, bool) {
	session, ok := h.store.Get(c.Params("id"))
	if !ok {
		c.SendStatus(fiber.StatusNotFound)
		c.JSON(fiber.Map{
			"error": "Could not find Session matching Session ID",
		})
	}

	return session, ok
}

func (h *sessionsHandler) createSession(c *fiber.Ctx) error {
	session := h.store.Create()

	c.Status(fiber.StatusCreated)
	return c.JSON(fiber.Map{
		"id": session.ID,
	})
}

func (h *sessionsHandler) getSession(c *fiber.Ctx) error {
	session, ok := h.session(c)
	if !ok {
		return nil
	}

	return c.JSON(session.Snapshot())
}

func (h *sessionsHandler) deleteSession(c *fiber.Ctx) error {
	if !h.store.Delete(c.Params("id")) {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Session matching Session ID",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *sessionsHandler) planTrip(c *fiber.Ctx) error {
	session, ok := h.session(c)
	if !ok {
		return nil
	}

	var requestBody struct {
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
	}
	if err := c.BodyParser(&requestBody); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := session.Plan(c.UserContext(), requestBody.Origin, requestBody.Destination)
	switch {
	case errors.Is(err, apiclient.ErrMissingTripEndpoints):
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Origin and destination must both be set",
		})
	case errors.Is(err, tripview.ErrSuperseded):
		c.SendStatus(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"error": "Trip was superseded by a newer request",
		})
	case errors.Is(err, tripview.ErrClosed):
		c.SendStatus(fiber.StatusGone)
		return c.JSON(fiber.Map{
			"error": "Session is closed",
		})
	case err != nil:
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if c.QueryBool("wait") {
		session.Wait()
	}

	return c.JSON(session.Snapshot())
}

func (h *sessionsHandler) fetchLineReports(c *fiber.Ctx) error {
	session, ok := h.session(c)
	if !ok {
		return nil
	}

	line := c.Params("line")
	if err := session.FetchReports(c.UserContext(), line); err != nil {
		if errors.Is(err, tripview.ErrClosed) {
			c.SendStatus(fiber.StatusGone)
			return c.JSON(fiber.Map{
				"error": "Session is closed",
			})
		}
		return upstreamError(c, err, "Could not fetch reports for line")
	}

	snapshot := session.Snapshot()
	return c.JSON(fiber.Map{
		"line":    line,
		"state":   snapshot.LineStates[line],
		"reports": snapshot.ReportsByLine[line],
	})
}

func (h *sessionsHandler) getScene(c *fiber.Ctx) error {
	session, ok := h.session(c)
	if !ok {
		return nil
	}

	return reduce(c, "scene", session.Scene())
}

func (h *sessionsHandler) getItinerary(c *fiber.Ctx) error {
	session, ok := h.session(c)
	if !ok {
		return nil
	}

	return reduce(c, "itinerary", session.Itinerary())
}

func (h *sessionsHandler) castVote(c *fiber.Ctx) error {
	session, ok := h.session(c)
	if !ok {
		return nil
	}

	var requestBody struct {
		ReportID int64              `json:"report_id"`
		Action   tracker.VoteAction `json:"action"`
	}
	if err := c.BodyParser(&requestBody); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := session.Vote(c.UserContext(), requestBody.ReportID, requestBody.Action)
	switch {
	case errors.Is(err, tracker.ErrInvalidVoteAction):
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Action must be like or dislike",
		})
	case errors.Is(err, tripview.ErrAlreadyVoted):
		c.SendStatus(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"error": "Already voted on this report",
		})
	case errors.Is(err, tripview.ErrClosed):
		c.SendStatus(fiber.StatusGone)
		return c.JSON(fiber.Map{
			"error": "Session is closed",
		})
	case err != nil:
		return upstreamError(c, err, "Could not submit vote")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"report_id": requestBody.ReportID,
		"action":    requestBody.Action,
	})
}
