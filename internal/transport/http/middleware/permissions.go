package middleware

import (
	"context"
	"errors"
	"strconv"

	"team-task-manager/internal/auth"
	"team-task-manager/internal/entities"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

const (
	paramTeamID = "team_id"
	paramTaskID = "task_id"
)

// AssigneeChecker reports whether a user is assigned to a task.
type AssigneeChecker func(ctx context.Context, taskID, userID int64) (bool, error)

// OwnerLookup returns the creator id of the resource identified by id.
type OwnerLookup func(ctx context.Context, id int64) (int64, error)

type rule func(c *fiber.Ctx, p *auth.Principal) error

// guard runs r for the authenticated principal; it must be mounted after Authenticate.
func guard(r rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := Principal(c)
		if !ok {
			return unauthorized(c)
		}
		return r(c, p)
	}
}

func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	return id, err == nil && id > 0
}

func badParam(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.NewError(dto.INVALIDARGUMENT, name+" must be a positive integer"))
}

// IsAdmin allows global admins only.
func IsAdmin() fiber.Handler {
	return guard(func(c *fiber.Ctx, p *auth.Principal) error {
		if !p.IsAdmin() {
			return forbidden(c)
		}
		return c.Next()
	})
}

// IsTeamMember allows members of team_id.
func IsTeamMember() fiber.Handler {
	return guard(func(c *fiber.Ctx, p *auth.Principal) error {
		teamID, ok := paramID(c, paramTeamID)
		if !ok {
			return badParam(c, paramTeamID)
		}
		if _, member := p.TeamRole(teamID); !member {
			return forbidden(c)
		}
		return c.Next()
	})
}

// IsAdminAndMember allows global admins that are also members of team_id.
func IsAdminAndMember() fiber.Handler {
	return guard(func(c *fiber.Ctx, p *auth.Principal) error {
		teamID, ok := paramID(c, paramTeamID)
		if !ok {
			return badParam(c, paramTeamID)
		}
		if _, member := p.TeamRole(teamID); !member || !p.IsAdmin() {
			return forbidden(c)
		}
		return c.Next()
	})
}

// AdminOrManagerInTeam allows members of team_id that are global admins or team managers.
func AdminOrManagerInTeam() fiber.Handler {
	return guard(func(c *fiber.Ctx, p *auth.Principal) error {
		teamID, ok := paramID(c, paramTeamID)
		if !ok {
			return badParam(c, paramTeamID)
		}
		role, member := p.TeamRole(teamID)
		if !member || (!p.IsAdmin() && role != entities.TeamRoleManager) {
			return forbidden(c)
		}
		return c.Next()
	})
}

// AdminOrManager allows global admins and managers of any team.
func AdminOrManager() fiber.Handler {
	return guard(func(c *fiber.Ctx, p *auth.Principal) error {
		if !p.IsAdmin() && !p.ManagesAnyTeam() {
			return forbidden(c)
		}
		return c.Next()
	})
}

// CanChangeStatus allows members of team_id that are admins, team managers or assignees of task_id.
func CanChangeStatus(isAssignee AssigneeChecker) fiber.Handler {
	return guard(func(c *fiber.Ctx, p *auth.Principal) error {
		teamID, ok := paramID(c, paramTeamID)
		if !ok {
			return badParam(c, paramTeamID)
		}
		taskID, ok := paramID(c, paramTaskID)
		if !ok {
			return badParam(c, paramTaskID)
		}

		role, member := p.TeamRole(teamID)
		if !member {
			return forbidden(c)
		}
		if p.IsAdmin() || role == entities.TeamRoleManager {
			return c.Next()
		}

		assigned, err := isAssignee(c.UserContext(), taskID, p.UserID)
		if err != nil {
			return lookupFailed(c, err)
		}
		if !assigned {
			return forbidden(c)
		}
		return c.Next()
	})
}

// CreatorOnly allows the creator of the resource identified by param.
func CreatorOnly(param string, lookup OwnerLookup) fiber.Handler {
	return owner(param, lookup, false)
}

// CreatorOrAdmin allows the creator of the resource identified by param and global admins.
func CreatorOrAdmin(param string, lookup OwnerLookup) fiber.Handler {
	return owner(param, lookup, true)
}

func owner(param string, lookup OwnerLookup, adminPasses bool) fiber.Handler {
	return guard(func(c *fiber.Ctx, p *auth.Principal) error {
		id, ok := paramID(c, param)
		if !ok {
			return badParam(c, param)
		}
		creatorID, err := lookup(c.UserContext(), id)
		if err != nil {
			return lookupFailed(c, err)
		}
		if creatorID != p.UserID && !(adminPasses && p.IsAdmin()) {
			return forbidden(c)
		}
		return c.Next()
	})
}

// BlockEveryone disables a route.
func BlockEveryone() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return forbidden(c)
	}
}

var notFound = []struct {
	err error
	msg string
}{
	{entities.ErrTaskNotFound, "Task not found"},
	{entities.ErrCommentNotFound, "Comment not found"},
	{entities.ErrMeetingNotFound, "Meeting not found"},
	{entities.ErrTeamNotFound, "Team not found"},
	{entities.ErrUserNotFound, "User not found"},
}

func lookupFailed(c *fiber.Ctx, err error) error {
	for _, nf := range notFound {
		if errors.Is(err, nf.err) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewError(dto.NOTFOUND, nf.msg))
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError(dto.INTERNAL, "internal error"))
}
