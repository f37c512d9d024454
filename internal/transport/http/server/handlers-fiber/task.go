package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// teamTaskParams reads team_id and task_id route parameters.
func teamTaskParams(c *fiber.Ctx) (int64, int64, error) {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return 0, 0, err
	}
	taskID, err := idParam(c, paramTaskID)
	if err != nil {
		return 0, 0, err
	}
	return teamID, taskID, nil
}

// CreateTask creates a task in the team on behalf of the caller.
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.TaskCreate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	task := mapper.FromTaskCreate(body)
	task.TeamID = teamID
	task.CreatorID = p.UserID

	created, err := h.uc.CreateTask(c.UserContext(), task)
	if err != nil {
		return h.fail(c, "create task", err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToTask(*created))
}

// ListTasks returns every task. The route is disabled by BlockEveryone.
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.uc.ListTasks(c.UserContext())
	if err != nil {
		return h.fail(c, "list tasks", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTasks(tasks))
}

// ListTeamTasks returns team tasks filtered by status and priority.
func (h *Handler) ListTeamTasks(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}
	filter, err := taskFilter(c, false)
	if err != nil {
		return writeError(c, err)
	}

	tasks, err := h.uc.ListTeamTasks(c.UserContext(), teamID, filter)
	if err != nil {
		return h.fail(c, "list team tasks", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTasks(tasks))
}

// MyTasks returns tasks the caller created or is assigned to.
func (h *Handler) MyTasks(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	filter, err := taskFilter(c, true)
	if err != nil {
		return writeError(c, err)
	}

	tasks, err := h.uc.ListUserTasks(c.UserContext(), p.UserID, filter)
	if err != nil {
		return h.fail(c, "list user tasks", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTasks(tasks))
}

// GetTask returns a task with creator email and assignees.
func (h *Handler) GetTask(c *fiber.Ctx) error {
	taskID, err := idParam(c, paramTaskID)
	if err != nil {
		return writeError(c, err)
	}

	details, err := h.uc.TaskDetails(c.UserContext(), taskID)
	if err != nil {
		return h.fail(c, "get task", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTaskDetails(*details))
}

// UpdateTask applies a partial update to a team task.
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	teamID, taskID, err := teamTaskParams(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.TaskUpdate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	task, err := h.uc.UpdateTask(c.UserContext(), teamID, taskID, mapper.FromTaskUpdate(body))
	if err != nil {
		return h.fail(c, "update task", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTask(*task))
}

// DeleteTask removes a team task.
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	teamID, taskID, err := teamTaskParams(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteTask(c.UserContext(), teamID, taskID); err != nil {
		return h.fail(c, "delete task", err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ChangeTaskStatus moves a task to a new status and records the change.
func (h *Handler) ChangeTaskStatus(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	teamID, taskID, err := teamTaskParams(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.StatusUpdate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	task, err := h.uc.ChangeTaskStatus(c.UserContext(), teamID, taskID, entities.TaskStatus(body.Status), p.UserID)
	if err != nil {
		return h.fail(c, "change task status", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTask(*task))
}

// TaskHistory returns the status changes of a task.
func (h *Handler) TaskHistory(c *fiber.Ctx) error {
	taskID, err := idParam(c, paramTaskID)
	if err != nil {
		return writeError(c, err)
	}

	history, err := h.uc.TaskHistory(c.UserContext(), taskID)
	if err != nil {
		return h.fail(c, "task history", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToStatusHistory(history))
}
