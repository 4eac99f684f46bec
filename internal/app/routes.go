package app

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/taskboardhq/taskboard/pkg/realtime"
)

func (a *App) registerRoutes() {
	api := a.fiber.Group("/api")

	api.Get("/health", a.handleHealth)

	api.Get("/projects", a.handleListProjects)
	api.Post("/projects", a.handleCreateProject)
	api.Get("/projects/:id", a.handleGetProject)
	api.Put("/projects/:id", a.handleUpdateProject)
	api.Delete("/projects/:id", a.handleDeleteProject)

	api.Get("/tasks", a.handleListTasks)
	api.Post("/tasks", a.handleCreateTask)
	api.Get("/tasks/project/:projectId", a.handleListTasksByProject)
	api.Get("/tasks/:id", a.handleGetTask)
	api.Put("/tasks/:id", a.handleUpdateTask)
	api.Delete("/tasks/:id", a.handleDeleteTask)

	api.Get("/users", a.handleListUsers)
	api.Post("/users", a.handleCreateUser)
	api.Get("/users/:id", a.handleGetUser)
	api.Put("/users/:id", a.handleUpdateUser)
	api.Delete("/users/:id", a.handleDeleteUser)

	api.Get("/notifications", a.handleListNotifications)
	api.Post("/notifications", a.handleCreateNotification)
	api.Get("/notifications/user/:userId", a.handleListNotificationsByUser)
	api.Put("/notifications/:id/read", a.handleMarkNotificationRead)

	if a.cfg.Realtime.Enabled {
		a.fiber.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		a.fiber.Get("/ws", websocket.New(func(conn *websocket.Conn) {
			realtime.ServeConn(a.hub, a.lgr, conn)
		}))
	}
}
