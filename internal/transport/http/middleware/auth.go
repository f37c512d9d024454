package middleware

import (
	"strings"

	"team-task-manager/internal/auth"
	"team-task-manager/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

const (
	localPrincipal = "principal"
	bearerPrefix   = "bearer "
)

// AccessParser validates access tokens.
type AccessParser interface {
	ParseAccess(token string) (*auth.Principal, error)
}

// Authenticate requires a valid bearer access token and exposes its principal
// through fiber locals and the user context.
func Authenticate(parser AccessParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return unauthorized(c)
		}

		p, err := parser.ParseAccess(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(localPrincipal, p)
		c.SetUserContext(auth.WithPrincipal(c.UserContext(), p))
		return c.Next()
	}
}

// Principal returns the authenticated caller, if any.
func Principal(c *fiber.Ctx) (*auth.Principal, bool) {
	p, ok := c.Locals(localPrincipal).(*auth.Principal)
	return p, ok && p != nil
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError(dto.UNAUTHORIZED, "Could not validate credentials"))
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.NewError(dto.FORBIDDEN, "Not enough permissions"))
}
