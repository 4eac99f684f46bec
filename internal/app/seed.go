package app

import (
	"context"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
	"github.com/taskboardhq/taskboard/pkg/projects"
	"github.com/taskboardhq/taskboard/pkg/tasks"
	"github.com/taskboardhq/taskboard/pkg/users"
)

// seed loads demo data on an empty database. It goes through the services so
// defaults and validation apply. It runs before any client connects, so the
// live frames reach nobody; the targeted copies still leave durable
// notifications for the demo users.
func (a *App) seed(ctx context.Context) error {
	existing, err := a.Projects.List(ctx, store.ListOptions{Limit: 1})
	if err != nil {
		return err
	}
	if existing.Total > 0 {
		return nil
	}

	ana, err := a.Users.Create(ctx, users.CreateInput{
		Name:  "Ana García",
		Email: "ana@example.com",
		Role:  domain.RoleManager,
	})
	if err != nil {
		return err
	}
	carlos, err := a.Users.Create(ctx, users.CreateInput{
		Name:  "Carlos López",
		Email: "carlos@example.com",
	})
	if err != nil {
		return err
	}

	project, err := a.Projects.Create(ctx, projects.CreateInput{
		Name:        "Plataforma Interna",
		Description: "Migración del tablero de tareas",
		Status:      domain.ProjectStatusInProgress,
		Owner:       ana.ID.String(),
		Members:     []string{ana.ID.String(), carlos.ID.String()},
	})
	if err != nil {
		return err
	}

	demoTasks := []tasks.CreateInput{
		{Title: "Diseñar esquema de datos", ProjectID: project.ID, Priority: domain.PriorityHigh, Assignee: ana.ID.String()},
		{Title: "Configurar despliegue", ProjectID: project.ID, Priority: domain.PriorityMedium, Assignee: carlos.ID.String()},
		{Title: "Escribir documentación", ProjectID: project.ID, Priority: domain.PriorityLow},
	}
	for _, input := range demoTasks {
		if _, err := a.Tasks.Create(ctx, input); err != nil {
			return err
		}
	}

	a.lgr.Info("seed data loaded",
		logger.Field{Key: "project", Value: project.Name},
		logger.Field{Key: "tasks", Value: len(demoTasks)},
	)
	return nil
}
