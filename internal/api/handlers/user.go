package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskdesk/internal/config"
	"taskdesk/internal/repository"
	"taskdesk/pkg/crypto"
	"taskdesk/pkg/logger"
)

// Register creates a new user. The response never contains the password in
// any form.
func Register(c *fiber.Ctx) error {
	type RegisterRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": validationMessages(err),
			"success": false,
			"status":  400,
		})
	}

	hashedPassword, err := crypto.HashPassword(req.Password)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating user",
			"success": false,
			"status":  500,
		})
	}

	user, err := repository.CreateUser(config.DB, req.Name, req.Email, hashedPassword)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.SecurityLogger.Warn("Duplicate email", zap.String("email", req.Email))
			return c.Status(409).JSON(fiber.Map{
				"message": "Email already registered",
				"success": false,
				"status":  409,
			})
		}
		logger.ErrorLogger.Error("Error creating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating user",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("User registered successfully", zap.Int("user_id", user.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "User created successfully",
		"success": true,
		"status":  201,
		"data":    user,
	})
}

func GetUser(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid user ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	user, err := repository.GetUserByID(config.DB, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "User not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching user",
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

// DeleteUser removes the user and cascades deletion of all their tasks in
// one transaction, then drops any completion jobs still queued for them.
func DeleteUser(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid user ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	user, taskIDs, err := repository.DeleteUser(config.DB, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "User not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error deleting user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting user",
			"success": false,
			"status":  500,
		})
	}

	if err := config.Completer.Cancel(c.Context(), taskIDs...); err != nil {
		// The tasks are gone; a stale job is harmless because completion
		// re-checks existence before applying.
		logger.ErrorLogger.Error("Error cancelling completion jobs", zap.Error(err))
	}

	logger.AuditLogger.Info("User deleted successfully", zap.Int("user_id", targetID))
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
		"success": true,
		"status":  200,
		"data":    user,
	})
}
