package handlers_fiber

import (
	"context"
	"net/http"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

type evaluateFunc func(ctx context.Context, taskID, evaluatorID int64, in entities.EvaluationInput) (*entities.Evaluation, error)

// evaluate parses the shared create/update request and runs fn for the caller.
func (h *Handler) evaluate(c *fiber.Ctx, op string, status int, fn evaluateFunc) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	taskID, err := idParam(c, paramTaskID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.EvaluationInput
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	e, err := fn(c.UserContext(), taskID, p.UserID, entities.EvaluationInput{Score: body.Score, Feedback: body.Feedback})
	if err != nil {
		return h.fail(c, op, err)
	}
	return c.Status(status).JSON(mapper.ToEvaluation(*e))
}

// CreateEvaluation scores a finished task for all of its assignees.
func (h *Handler) CreateEvaluation(c *fiber.Ctx) error {
	return h.evaluate(c, "create evaluation", http.StatusCreated, h.uc.CreateEvaluation)
}

// UpdateEvaluation rewrites the caller's evaluation of a task.
func (h *Handler) UpdateEvaluation(c *fiber.Ctx) error {
	return h.evaluate(c, "update evaluation", http.StatusOK, h.uc.UpdateEvaluation)
}

// MyEvaluations returns evaluations that name the caller as a recipient.
func (h *Handler) MyEvaluations(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}

	evals, err := h.uc.UserEvaluations(c.UserContext(), p.UserID)
	if err != nil {
		return h.fail(c, "list user evaluations", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToEvaluations(evals))
}

// MyAverageScore averages the caller's scores over a date range.
func (h *Handler) MyAverageScore(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	r, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}

	avg, err := h.uc.AverageScore(c.UserContext(), p.UserID, r)
	if err != nil {
		return h.fail(c, "average score", err)
	}
	return c.Status(http.StatusOK).JSON(dto.AverageScore{AverageScore: avg})
}

// TaskEvaluations returns the evaluations of a task with evaluator names.
func (h *Handler) TaskEvaluations(c *fiber.Ctx) error {
	taskID, err := idParam(c, paramTaskID)
	if err != nil {
		return writeError(c, err)
	}

	evals, err := h.uc.TaskEvaluations(c.UserContext(), taskID)
	if err != nil {
		return h.fail(c, "list task evaluations", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToEvaluations(evals))
}
