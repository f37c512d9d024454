package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// AddTeamMember adds a user by email.
func (h *Handler) AddTeamMember(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.MemberAdd
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	m, err := h.uc.AddTeamMember(c.UserContext(), teamID, mapper.FromMemberAdd(body))
	if err != nil {
		return h.fail(c, "add team member", err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToTeamMember(*m))
}

// AddTeamMembers adds users by email and reports the entries that failed.
func (h *Handler) AddTeamMembers(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}

	var body []dto.MemberAdd
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	res, err := h.uc.AddTeamMembers(c.UserContext(), teamID, mapper.FromMemberAdds(body))
	if err != nil {
		return h.fail(c, "add team members", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToBulkAdd(res))
}

// RemoveTeamMember removes a single member.
func (h *Handler) RemoveTeamMember(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}
	userID, err := idParam(c, paramUserID)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.RemoveTeamMember(c.UserContext(), teamID, userID); err != nil {
		return h.fail(c, "remove team member", err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// RemoveTeamMembers removes members and reports ids that were not members.
func (h *Handler) RemoveTeamMembers(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.UserIDs
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	res, err := h.uc.RemoveTeamMembers(c.UserContext(), teamID, body.UserIDs)
	if err != nil {
		return h.fail(c, "remove team members", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToBulkRemove(res))
}

// UpdateTeamMemberRole changes a member role.
func (h *Handler) UpdateTeamMemberRole(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}
	userID, err := idParam(c, paramUserID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.RoleUpdate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	role := entities.TeamRole(body.Role)
	if err := h.uc.UpdateTeamMemberRole(c.UserContext(), teamID, userID, role); err != nil {
		return h.fail(c, "update team member role", err)
	}
	return c.Status(http.StatusOK).JSON(dto.RoleUpdate{Role: string(role)})
}
