package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskdesk/internal/config"
	"taskdesk/internal/models"
	"taskdesk/internal/repository"
	"taskdesk/pkg/logger"
)

// CreateTask persists a task owned by the session user and schedules its
// delayed completion.
func CreateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type TaskRequest struct {
		Name string `json:"name" validate:"required"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": validationMessages(err),
			"success": false,
			"status":  400,
		})
	}

	task, err := repository.CreateTask(config.DB, userID, req.Name)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	if err := config.Completer.Schedule(c.Context(), task.ID); err != nil {
		// The task exists either way; it just will not auto-complete.
		logger.ErrorLogger.Error("Error scheduling task completion", zap.Int("task_id", task.ID), zap.Error(err))
	}

	logger.AuditLogger.Info("Task created successfully", zap.Int("task_id", task.ID), zap.Int("user_id", userID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  201,
		"data":    task,
	})
}

// ListTasks returns the session user's tasks.
func ListTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	tasks, err := repository.ListTasksByUser(config.DB, userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    tasks,
	})
}

func GetTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	task, err := repository.GetTaskByID(config.DB, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task",
			"success": false,
			"status":  500,
		})
	}

	if task.UserID != userID {
		logger.SecurityLogger.Warn("Forbidden task access", zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Task found",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

// UpdateTask applies a partial patch (name and/or status) after the
// existence-then-ownership check: missing tasks yield 404 before the 403
// ownership verdict.
func UpdateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	task, err := repository.GetTaskByID(config.DB, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task",
			"success": false,
			"status":  500,
		})
	}

	if task.UserID != userID {
		logger.SecurityLogger.Warn("Forbidden task update", zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "You don't have permission to update this task",
			"success": false,
			"status":  403,
		})
	}

	type UpdateTaskRequest struct {
		Name   *string `json:"name"`
		Status *string `json:"status"`
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if req.Status != nil && !models.ValidStatus(*req.Status) {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid status",
			"success": false,
			"status":  400,
		})
	}

	updatedTask, err := repository.UpdateTask(config.DB, taskID, req.Name, req.Status)
	if err != nil {
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  200,
		"data":    updatedTask,
	})
}

// DeleteTask removes the task after the same existence-then-ownership check
// as UpdateTask, and cancels its pending completion job.
func DeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	task, err := repository.GetTaskByID(config.DB, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task",
			"success": false,
			"status":  500,
		})
	}

	if task.UserID != userID {
		logger.SecurityLogger.Warn("Forbidden task delete", zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return c.Status(403).JSON(fiber.Map{
			"message": "You don't have permission to delete this task",
			"success": false,
			"status":  403,
		})
	}

	if err := repository.DeleteTask(config.DB, taskID); err != nil {
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}

	if err := config.Completer.Cancel(c.Context(), taskID); err != nil {
		logger.ErrorLogger.Error("Error cancelling completion job", zap.Int("task_id", taskID), zap.Error(err))
	}

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return c.SendStatus(204)
}
