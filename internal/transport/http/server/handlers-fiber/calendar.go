package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// MyCalendar groups the caller's due tasks and scheduled meetings by day.
func (h *Handler) MyCalendar(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	r, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}

	days, err := h.uc.UserCalendar(c.UserContext(), p.UserID, r)
	if err != nil {
		return h.fail(c, "user calendar", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToCalendar(days))
}

// TeamCalendar groups team tasks and meetings of team members by day.
func (h *Handler) TeamCalendar(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}
	r, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}

	days, err := h.uc.TeamCalendar(c.UserContext(), teamID, r)
	if err != nil {
		return h.fail(c, "team calendar", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToCalendar(days))
}
