package handlers_fiber

import (
	"net/http"

	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

const tokenType = "bearer"

// Login exchanges credentials for an access and refresh token pair.
func (h *Handler) Login(c *fiber.Ctx) error {
	var body dto.LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	pair, err := h.uc.Login(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return h.fail(c, "login", err)
	}

	return c.Status(http.StatusOK).JSON(dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    tokenType,
	})
}

// Refresh issues a new access token from a refresh token.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var body dto.RefreshRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	access, err := h.uc.Refresh(c.UserContext(), body.RefreshToken)
	if err != nil {
		return h.fail(c, "refresh", err)
	}

	return c.Status(http.StatusOK).JSON(dto.TokenResponse{AccessToken: access, TokenType: tokenType})
}
