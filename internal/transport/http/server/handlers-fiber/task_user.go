package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// AddAssignee assigns the user from the path to a task.
func (h *Handler) AddAssignee(c *fiber.Ctx) error {
	teamID, taskID, err := teamTaskParams(c)
	if err != nil {
		return writeError(c, err)
	}
	userID, err := idParam(c, paramUserID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.AssigneeRole
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return invalidBody(c)
		}
	}

	a, err := h.uc.AddAssignee(c.UserContext(), teamID, taskID, entities.AssigneeAdd{UserID: userID, Role: body.Role})
	if err != nil {
		return h.fail(c, "add assignee", err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToTaskAssignee(*a))
}

// AddAssignees assigns several users and reports the entries that failed.
func (h *Handler) AddAssignees(c *fiber.Ctx) error {
	teamID, taskID, err := teamTaskParams(c)
	if err != nil {
		return writeError(c, err)
	}

	var body []dto.AssigneeAdd
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	res, err := h.uc.AddAssignees(c.UserContext(), teamID, taskID, mapper.FromAssigneeAdds(body))
	if err != nil {
		return h.fail(c, "add assignees", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToBulkAdd(res))
}

// RemoveAssignee unassigns the user from the path.
func (h *Handler) RemoveAssignee(c *fiber.Ctx) error {
	teamID, taskID, err := teamTaskParams(c)
	if err != nil {
		return writeError(c, err)
	}
	userID, err := idParam(c, paramUserID)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.RemoveAssignee(c.UserContext(), teamID, taskID, userID); err != nil {
		return h.fail(c, "remove assignee", err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// RemoveAssignees unassigns several users and reports ids that were not assigned.
func (h *Handler) RemoveAssignees(c *fiber.Ctx) error {
	teamID, taskID, err := teamTaskParams(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.UserIDs
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	res, err := h.uc.RemoveAssignees(c.UserContext(), teamID, taskID, body.UserIDs)
	if err != nil {
		return h.fail(c, "remove assignees", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToBulkRemove(res))
}

// UpdateAssigneeRole changes the role of an assignment.
func (h *Handler) UpdateAssigneeRole(c *fiber.Ctx) error {
	teamID, taskID, err := teamTaskParams(c)
	if err != nil {
		return writeError(c, err)
	}
	userID, err := idParam(c, paramUserID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.AssigneeRoleUpdate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	if err := h.uc.UpdateAssigneeRole(c.UserContext(), teamID, taskID, userID, body.NewRole); err != nil {
		return h.fail(c, "update assignee role", err)
	}
	return c.Status(http.StatusOK).JSON(dto.AssigneeRoleUpdate{NewRole: body.NewRole})
}
