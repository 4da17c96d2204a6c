// Package middleware provides authentication, logging, rate limiting, metrics
// and tracing middleware for the application.
package middleware

import (
	"context"
	"strings"

	"devconnector/internal/auth"
	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenHeader carries the identity token on protected requests.
const TokenHeader = "x-auth-token"

const (
	// MsgNoToken answers requests that reach a protected route without identity.
	MsgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// AuthRequired rejects requests without a valid identity token. On success
// the user id is stored in c.Locals("userID") and in the user context.
func AuthRequired(issuer *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := strings.TrimSpace(c.Get(TokenHeader))
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(MsgNoToken))
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			Logger.DebugContext(c.UserContext(), "token rejected")
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msgInvalidToken))
		}

		userID, err := claims.UserID()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msgInvalidToken))
		}

		c.Locals("userID", userID)
		ctx := context.WithValue(c.UserContext(), UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// CurrentUserID returns the id stored by AuthRequired.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok && id != 0
}
