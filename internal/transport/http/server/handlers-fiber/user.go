package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/entities"
	"team-task-manager/internal/mapper"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// Register creates an account with the default role.
func (h *Handler) Register(c *fiber.Ctx) error {
	var body dto.UserCreate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	user, err := h.uc.Register(c.UserContext(), entities.User{
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	}, body.Password)
	if err != nil {
		return h.fail(c, "register user", err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToUser(*user))
}

// ListUsers returns every user.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.uc.ListUsers(c.UserContext())
	if err != nil {
		return h.fail(c, "list users", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToUsers(users))
}

// Me returns the caller with their teams.
func (h *Handler) Me(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	return h.userWithTeams(c, p.UserID)
}

// GetUser returns a user with their teams.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	userID, err := idParam(c, paramUserID)
	if err != nil {
		return writeError(c, err)
	}
	return h.userWithTeams(c, userID)
}

func (h *Handler) userWithTeams(c *fiber.Ctx, userID int64) error {
	u, err := h.uc.UserWithTeams(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, "get user", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToUserWithTeams(*u))
}

// UpdateMe applies a partial update to the caller.
func (h *Handler) UpdateMe(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.UserUpdate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	user, err := h.uc.UpdateUser(c.UserContext(), p.UserID, mapper.FromUserUpdate(body))
	if err != nil {
		return h.fail(c, "update user", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToUser(*user))
}

// SetUserRole changes the global role of a user.
func (h *Handler) SetUserRole(c *fiber.Ctx) error {
	userID, err := idParam(c, paramUserID)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.RoleUpdate
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	user, err := h.uc.SetUserRole(c.UserContext(), userID, entities.GlobalRole(body.Role))
	if err != nil {
		return h.fail(c, "set user role", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToUser(*user))
}

// DeleteUser removes a user. The route is disabled by BlockEveryone.
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	userID, err := idParam(c, paramUserID)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteUser(c.UserContext(), userID); err != nil {
		return h.fail(c, "delete user", err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListTeamUsers returns the members of a team as users.
func (h *Handler) ListTeamUsers(c *fiber.Ctx) error {
	teamID, err := idParam(c, paramTeamID)
	if err != nil {
		return writeError(c, err)
	}

	users, err := h.uc.ListTeamUsers(c.UserContext(), teamID)
	if err != nil {
		return h.fail(c, "list team users", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToUsers(users))
}
