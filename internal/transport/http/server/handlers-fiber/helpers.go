package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"team-task-manager/internal/auth"
	"team-task-manager/internal/entities"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type errorSpec struct {
	err    error
	status int
	code   dto.ErrorCode
	msg    string
}

// errorSpecs is matched in order; a wrapped sentinel with detail text reports the detail.
var errorSpecs = []errorSpec{
	{entities.ErrInvalidArgument, http.StatusBadRequest, dto.INVALIDARGUMENT, "invalid argument"},
	{entities.ErrBadCredentials, http.StatusUnauthorized, dto.UNAUTHORIZED, "Incorrect email or password"},
	{entities.ErrUnauthorized, http.StatusUnauthorized, dto.UNAUTHORIZED, "Could not validate credentials"},
	{entities.ErrForbidden, http.StatusForbidden, dto.FORBIDDEN, "Not enough permissions"},
	{entities.ErrEmailTaken, http.StatusBadRequest, dto.EMAILTAKEN, "Email already registered"},
	{entities.ErrTeamExists, http.StatusBadRequest, dto.TEAMEXISTS, "Team with this name already exists"},
	{entities.ErrInviteCodeConflict, http.StatusBadRequest, dto.INVITECONFLICT, "Invite code conflict, try again"},
	{entities.ErrInviteCodeExhausted, http.StatusBadRequest, dto.INVITECONFLICT, "Failed to generate unique invite code, please try again"},
	{entities.ErrInviteExpired, http.StatusBadRequest, dto.INVITEEXPIRED, "Invite code has expired or the team is inactive"},
	{entities.ErrAlreadyMember, http.StatusBadRequest, dto.ALREADYMEMBER, "User is already a member of the team"},
	{entities.ErrAlreadyAssigned, http.StatusBadRequest, dto.ALREADYASSIGNED, "User already assigned to this task"},
	{entities.ErrEvaluationExists, http.StatusBadRequest, dto.EVALUATIONEXISTS, "Evaluation already exists for this evaluator"},
	{entities.ErrMeetingConflict, http.StatusBadRequest, dto.MEETINGCONFLICT, "Participants already have meetings at that time"},
	{entities.ErrUserNotFound, http.StatusNotFound, dto.NOTFOUND, "User not found"},
	{entities.ErrTeamNotFound, http.StatusNotFound, dto.NOTFOUND, "Team not found"},
	{entities.ErrInviteNotFound, http.StatusNotFound, dto.NOTFOUND, "Invite code not found"},
	{entities.ErrNotMember, http.StatusNotFound, dto.NOTFOUND, "User is not a member of the team"},
	{entities.ErrTaskNotFound, http.StatusNotFound, dto.NOTFOUND, "Task not found"},
	{entities.ErrAssigneeNotFound, http.StatusNotFound, dto.NOTFOUND, "Executor not found for this task"},
	{entities.ErrCommentNotFound, http.StatusNotFound, dto.NOTFOUND, "Comment not found"},
	{entities.ErrEvaluationNotFound, http.StatusNotFound, dto.NOTFOUND, "Evaluation not found"},
	{entities.ErrMeetingNotFound, http.StatusNotFound, dto.NOTFOUND, "Meeting not found"},
}

func writeError(c *fiber.Ctx, err error) error {
	var conflict *entities.MeetingConflictError
	if errors.As(err, &conflict) {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(dto.MEETINGCONFLICT, conflict.Error()))
	}

	for _, s := range errorSpecs {
		if errors.Is(err, s.err) {
			return c.Status(s.status).JSON(errorResponse(s.code, detail(err, s.err, s.msg)))
		}
	}

	return c.Status(http.StatusInternalServerError).JSON(errorResponse(dto.INTERNAL, "internal error"))
}

// detail returns the text added when err wraps sentinel as "sentinel: detail", or fallback.
func detail(err, sentinel error, fallback string) string {
	if d, ok := strings.CutPrefix(err.Error(), sentinel.Error()+": "); ok && d != "" {
		return d
	}
	return fallback
}

func errorResponse(code dto.ErrorCode, msg string) dto.ErrorResponse {
	return dto.NewError(code, msg)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(errorResponse(dto.INVALIDARGUMENT, "invalid body"))
}

// idParam parses a positive integer route parameter.
func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", entities.ErrInvalidArgument, name)
	}
	return id, nil
}

// caller returns the authenticated principal placed by middleware.Authenticate.
func caller(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.FromContext(c.UserContext())
	if !ok {
		return nil, entities.ErrUnauthorized
	}
	return p, nil
}

// dateRange reads the required start_date and end_date query parameters.
func dateRange(c *fiber.Ctx) (entities.DateRange, error) {
	from, err := time.Parse(dateLayout, c.Query("start_date"))
	if err != nil {
		return entities.DateRange{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD", entities.ErrInvalidArgument)
	}
	to, err := time.Parse(dateLayout, c.Query("end_date"))
	if err != nil {
		return entities.DateRange{}, fmt.Errorf("%w: end_date must be YYYY-MM-DD", entities.ErrInvalidArgument)
	}
	return entities.DateRange{From: from, To: to}, nil
}

// queryValues returns every value of a repeatable query parameter; comma separated values are split.
func queryValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// taskFilter reads status, priority and, when withTeam is set, team_id query parameters.
func taskFilter(c *fiber.Ctx, withTeam bool) (entities.TaskFilter, error) {
	var f entities.TaskFilter
	for _, s := range queryValues(c, "status") {
		f.Statuses = append(f.Statuses, entities.TaskStatus(s))
	}
	for _, p := range queryValues(c, "priority") {
		f.Priorities = append(f.Priorities, entities.TaskPriority(strings.ToUpper(p)))
	}
	if raw := c.Query("team_id"); withTeam && raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, fmt.Errorf("%w: team_id must be an integer", entities.ErrInvalidArgument)
		}
		f.TeamID = &id
	}
	return f, nil
}

// fail logs err against the operation and writes the mapped response.
func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	if mapped(err) {
		h.log.Infow(op, "error", err.Error(), "path", c.Path())
	} else {
		h.log.Errorw(op, "error", err, "path", c.Path())
	}
	return writeError(c, err)
}

func mapped(err error) bool {
	for _, s := range errorSpecs {
		if errors.Is(err, s.err) {
			return true
		}
	}
	return false
}
