package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskdesk/internal/config"
	"taskdesk/internal/middleware"
	"taskdesk/internal/repository"
	"taskdesk/pkg/crypto"
	"taskdesk/pkg/logger"
)

// Login verifies credentials and establishes a server-side session carried
// by an httpOnly cookie. Unknown email and wrong password produce the same
// response on purpose.
func Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": validationMessages(err),
			"success": false,
			"status":  400,
		})
	}

	user, hash, err := repository.GetUserByEmail(config.DB, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.SecurityLogger.Warn("Login with unknown email", zap.String("email", req.Email))
			return c.Status(401).JSON(fiber.Map{
				"message": "Invalid credentials",
				"success": false,
				"status":  401,
			})
		}
		logger.ErrorLogger.Error("Error fetching user for login", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error logging in",
			"success": false,
			"status":  500,
		})
	}

	if !crypto.VerifyPassword(req.Password, hash) {
		logger.SecurityLogger.Warn("Login with wrong password", zap.Int("user_id", user.ID))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	sessionID, err := config.Sessions.Create(c.Context(), user.ID, user.Email)
	if err != nil {
		logger.ErrorLogger.Error("Error creating session", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error logging in",
			"success": false,
			"status":  500,
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		Expires:  time.Now().Add(config.Sessions.TTL()),
		HTTPOnly: true,
		Secure:   config.Production,
	})

	logger.AuditLogger.Info("Login success", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "Login success",
		"success": true,
		"status":  200,
		"data":    user,
	})
}

// Logout destroys the server-side session and clears the cookie.
func Logout(c *fiber.Ctx) error {
	sessionID := c.Locals("sessionID").(string)
	if err := config.Sessions.Destroy(c.Context(), sessionID); err != nil {
		logger.ErrorLogger.Error("Error destroying session", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error logging out",
			"success": false,
			"status":  500,
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   config.Production,
	})

	logger.AuditLogger.Info("Logout success", zap.Int("user_id", c.Locals("userID").(int)))
	return c.JSON(fiber.Map{
		"message": "Logout success",
		"success": true,
		"status":  200,
	})
}

// Me returns the current user, re-fetched from the database. A session whose
// user was deleted in the meantime yields 404.
func Me(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	user, err := repository.GetUserByID(config.DB, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.SecurityLogger.Warn("Session for deleted user", zap.Int("user_id", userID))
			return c.Status(404).JSON(fiber.Map{
				"message": "User not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching current user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching current user",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "User found",
		"success": true,
		"status":  200,
		"data":    user,
	})
}
