package app

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
	"github.com/taskboardhq/taskboard/pkg/notifications"
	"github.com/taskboardhq/taskboard/pkg/projects"
	"github.com/taskboardhq/taskboard/pkg/tasks"
	"github.com/taskboardhq/taskboard/pkg/users"
)

func (a *App) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":           "ok",
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"connectedClients": a.hub.Count(),
	})
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", c.Params(param), store.ErrValidation)
	}
	return id, nil
}

func listOptions(c *fiber.Ctx) store.ListOptions {
	return store.ListOptions{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
}

func (a *App) handleListProjects(c *fiber.Ctx) error {
	res, err := a.Projects.List(c.Context(), listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(res.Items)
}

func (a *App) handleCreateProject(c *fiber.Ctx) error {
	var input projects.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return fmt.Errorf("invalid body: %w", store.ErrValidation)
	}
	project, err := a.Projects.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (a *App) handleGetProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	project, err := a.Projects.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(project)
}

func (a *App) handleUpdateProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input projects.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fmt.Errorf("invalid body: %w", store.ErrValidation)
	}
	project, err := a.Projects.Update(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(project)
}

func (a *App) handleDeleteProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := a.Projects.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "proyecto eliminado"})
}

func (a *App) handleListTasks(c *fiber.Ctx) error {
	res, err := a.Tasks.List(c.Context(), listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(res.Items)
}

func (a *App) handleCreateTask(c *fiber.Ctx) error {
	var input tasks.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return fmt.Errorf("invalid body: %w", store.ErrValidation)
	}
	task, err := a.Tasks.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (a *App) handleListTasksByProject(c *fiber.Ctx) error {
	projectID, err := parseID(c, "projectId")
	if err != nil {
		return err
	}
	res, err := a.Tasks.ListByProject(c.Context(), projectID, listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(res.Items)
}

func (a *App) handleGetTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	task, err := a.Tasks.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func (a *App) handleUpdateTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input tasks.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fmt.Errorf("invalid body: %w", store.ErrValidation)
	}
	task, err := a.Tasks.Update(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func (a *App) handleDeleteTask(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := a.Tasks.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "tarea eliminada"})
}

func (a *App) handleListUsers(c *fiber.Ctx) error {
	res, err := a.Users.ListActive(c.Context(), listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(res.Items)
}

func (a *App) handleCreateUser(c *fiber.Ctx) error {
	var input users.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return fmt.Errorf("invalid body: %w", store.ErrValidation)
	}
	user, err := a.Users.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (a *App) handleGetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, err := a.Users.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (a *App) handleUpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input users.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fmt.Errorf("invalid body: %w", store.ErrValidation)
	}
	user, err := a.Users.Update(c.Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (a *App) handleDeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := a.Users.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "usuario desactivado"})
}

func (a *App) handleListNotifications(c *fiber.Ctx) error {
	res, err := a.Notifications.ListAll(c.Context(), listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(res.Items)
}

func (a *App) handleCreateNotification(c *fiber.Ctx) error {
	var input notifications.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return fmt.Errorf("invalid body: %w", store.ErrValidation)
	}
	note, err := a.Notifications.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (a *App) handleListNotificationsByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	res, err := a.Notifications.ListByUser(c.Context(), userID, listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(res.Items)
}

func (a *App) handleMarkNotificationRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	note, err := a.Notifications.MarkRead(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(note)
}
