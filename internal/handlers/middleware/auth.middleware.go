package middleware

import (
	"fmt"
	"strings"

	"petshop/internal/authorization"
	"petshop/internal/models"
	"petshop/internal/types"
	"petshop/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	UserKeyFiber  = "User"
	ActorKeyFiber = "Actor"
)

func unauthorized(reason string) error {
	return fmt.Errorf("%w: %s", types.ErrUnauthorized, reason)
}

// RequireAuth resolves the bearer token to a user and stores the user and
// its Actor in the request locals.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.NewWithContext(c.UserContext(), "middleware").Function("RequireAuth")

		scheme, token, found := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			log.Info("missing or malformed authorization header")
			return unauthorized("bearer token required")
		}

		info, err := m.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			return err
		}

		user, err := m.userRepo.GetByID(c.UserContext(), m.DB.SQL, info.UserID)
		if err != nil {
			log.Info("token subject not found", "userID", info.UserID, "error", err.Error())
			return unauthorized("user not found")
		}

		c.Locals(UserKeyFiber, user)
		c.Locals(ActorKeyFiber, user.Actor())

		log.Debug("user authenticated", "userID", user.ID, "role", user.Type)
		return c.Next()
	}
}

// RequireStaff lets any worker through.
func (m *Middleware) RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authorization.Staff(GetActor(c)); err != nil {
			m.log.Function("RequireStaff").Info("staff access denied", "userID", GetActor(c).ID)
			return err
		}
		return c.Next()
	}
}

// RequireAdmin lets administrator workers through.
func (m *Middleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authorization.Admin(GetActor(c)); err != nil {
			m.log.Function("RequireAdmin").Info("admin access denied", "userID", GetActor(c).ID)
			return err
		}
		return c.Next()
	}
}

func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetActor returns the zero Actor, which every rule denies, when the request
// was not authenticated.
func GetActor(c *fiber.Ctx) models.Actor {
	actor, _ := c.Locals(ActorKeyFiber).(models.Actor)
	return actor
}
