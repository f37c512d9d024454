package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// CreateComment adds a comment authored by the caller.
func (h *Handler) CreateComment(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	taskID, err := idParam(c, paramTaskID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.CommentInput
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	comment, err := h.uc.CreateComment(c.UserContext(), entities.Comment{
		TaskID:   taskID,
		AuthorID: p.UserID,
		Content:  body.Content,
	})
	if err != nil {
		return h.fail(c, "create comment", err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToComment(*comment))
}

// ListComments returns task comments, newest first.
func (h *Handler) ListComments(c *fiber.Ctx) error {
	taskID, err := idParam(c, paramTaskID)
	if err != nil {
		return writeError(c, err)
	}

	comments, err := h.uc.ListComments(c.UserContext(), taskID)
	if err != nil {
		return h.fail(c, "list comments", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToComments(comments))
}

func (h *Handler) UpdateComment(c *fiber.Ctx) error {
	commentID, err := idParam(c, paramCommentID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.CommentInput
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	comment, err := h.uc.UpdateComment(c.UserContext(), commentID, body.Content)
	if err != nil {
		return h.fail(c, "update comment", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToComment(*comment))
}

func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	commentID, err := idParam(c, paramCommentID)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteComment(c.UserContext(), commentID); err != nil {
		return h.fail(c, "delete comment", err)
	}
	return c.SendStatus(http.StatusNoContent)
}
