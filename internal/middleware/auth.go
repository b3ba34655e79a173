package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskdesk/internal/config"
	"taskdesk/pkg/logger"
)

// SessionCookie is the name of the cookie carrying the opaque session ID.
const SessionCookie = "session_id"

// RequireSession resolves the session cookie to an identity and stores it in
// the request locals. Any failure short-circuits the request with 401; the
// protected handler never runs.
func RequireSession(c *fiber.Ctx) error {
	sessionID := c.Cookies(SessionCookie)
	if sessionID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthenticated",
			"success": false,
			"status":  401,
		})
	}

	sess, err := config.Sessions.Get(c.Context(), sessionID)
	if err != nil {
		logger.SecurityLogger.Warn("Invalid session", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthenticated",
			"success": false,
			"status":  401,
		})
	}

	c.Locals("userID", sess.UserID)
	c.Locals("email", sess.Email)
	c.Locals("sessionID", sessionID)
	return c.Next()
}
