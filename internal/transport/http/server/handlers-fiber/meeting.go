package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// CreateMeeting schedules a meeting with the caller as creator and participant.
func (h *Handler) CreateMeeting(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.MeetingCreate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	details, err := h.uc.CreateMeeting(c.UserContext(), p.UserID, mapper.FromMeetingCreate(body))
	if err != nil {
		return h.fail(c, "create meeting", err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToMeetingDetails(*details))
}

// UpdateMeeting applies a partial update, including cancellation and participant changes.
func (h *Handler) UpdateMeeting(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	meetingID, err := idParam(c, paramMeetingID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.MeetingUpdate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	details, err := h.uc.UpdateMeeting(c.UserContext(), meetingID, p.UserID, mapper.FromMeetingUpdate(body))
	if err != nil {
		return h.fail(c, "update meeting", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToMeetingDetails(*details))
}

// GetMeeting returns a meeting with creator, canceller and participants.
func (h *Handler) GetMeeting(c *fiber.Ctx) error {
	meetingID, err := idParam(c, paramMeetingID)
	if err != nil {
		return writeError(c, err)
	}

	details, err := h.uc.MeetingDetails(c.UserContext(), meetingID)
	if err != nil {
		return h.fail(c, "get meeting", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToMeetingDetails(*details))
}

// MyMeetings returns meetings the caller takes part in.
func (h *Handler) MyMeetings(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}

	meetings, err := h.uc.UserMeetings(c.UserContext(), p.UserID)
	if err != nil {
		return h.fail(c, "list user meetings", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToMeetings(meetings))
}

func (h *Handler) ListMeetings(c *fiber.Ctx) error {
	meetings, err := h.uc.ListMeetings(c.UserContext())
	if err != nil {
		return h.fail(c, "list meetings", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToMeetings(meetings))
}

func (h *Handler) DeleteMeeting(c *fiber.Ctx) error {
	meetingID, err := idParam(c, paramMeetingID)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteMeeting(c.UserContext(), meetingID); err != nil {
		return h.fail(c, "delete meeting", err)
	}
	return c.SendStatus(http.StatusNoContent)
}
