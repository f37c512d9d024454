package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// CreateTeam creates a team with a fresh invite code; the caller becomes its manager.
func (h *Handler) CreateTeam(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.TeamCreate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	team, err := h.uc.CreateTeam(c.UserContext(), mapper.FromTeamCreate(body), p.UserID)
	if err != nil {
		return h.fail(c, "create team", err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToTeam(*team))
}

// ListTeams returns every team.
func (h *Handler) ListTeams(c *fiber.Ctx) error {
	teams, err := h.uc.ListTeams(c.UserContext())
	if err != nil {
		return h.fail(c, "list teams", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTeams(teams))
}

// GetTeam returns a team with members and tasks.
func (h *Handler) GetTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}

	details, err := h.uc.TeamDetails(c.UserContext(), teamID)
	if err != nil {
		return h.fail(c, "get team", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTeamDetails(*details))
}

// UpdateTeam applies a partial update; renaming rotates the invite code.
func (h *Handler) UpdateTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.TeamUpdate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	team, err := h.uc.UpdateTeam(c.UserContext(), teamID, mapper.FromTeamUpdate(body))
	if err != nil {
		return h.fail(c, "update team", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTeam(*team))
}

// DeleteTeam removes a team.
func (h *Handler) DeleteTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteTeam(c.UserContext(), teamID); err != nil {
		return h.fail(c, "delete team", err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// RegenerateInvite issues a new invite code with a fresh expiry.
func (h *Handler) RegenerateInvite(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}

	team, err := h.uc.RegenerateInvite(c.UserContext(), teamID)
	if err != nil {
		return h.fail(c, "regenerate invite", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTeam(*team))
}

// JoinTeam adds the caller to the team owning the invite code.
func (h *Handler) JoinTeam(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.JoinRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	team, err := h.uc.JoinTeam(c.UserContext(), body.InviteCode, p.UserID)
	if err != nil {
		return h.fail(c, "join team", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTeam(*team))
}
