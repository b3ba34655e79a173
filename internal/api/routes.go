package api

import (
	"github.com/gofiber/fiber/v2"

	"taskdesk/internal/api/handlers"
	"taskdesk/internal/middleware"
)

func RegisterRoutes(app *fiber.App) {
	// Auth
	auth := app.Group("/auth")
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", middleware.RequireSession, handlers.Logout)
	auth.Get("/me", middleware.RequireSession, handlers.Me)

	// User
	userRoutes := app.Group("/users")
	userRoutes.Post("/", handlers.Register)
	userRoutes.Get("/:id", handlers.GetUser)
	userRoutes.Delete("/:id", handlers.DeleteUser)

	// Task (session required)
	taskRoutes := app.Group("/tasks", middleware.RequireSession)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Put("/:id", handlers.UpdateTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)
}
