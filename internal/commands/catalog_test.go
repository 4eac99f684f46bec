package commands

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/internal/storage/memory"
	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
	"github.com/taskboardhq/taskboard/pkg/notifications"
	"github.com/taskboardhq/taskboard/pkg/projects"
	"github.com/taskboardhq/taskboard/pkg/tasks"
)

func TestCatalogCommands(t *testing.T) {
	ctx := context.Background()
	provider := memory.NewProvider()

	projectSvc, err := projects.New(projects.Dependencies{
		Repository: provider.Projects(),
		Tasks:      provider.Tasks(),
	})
	if err != nil {
		t.Fatalf("project service: %v", err)
	}
	taskSvc, err := tasks.New(tasks.Dependencies{
		Repository: provider.Tasks(),
		Projects:   provider.Projects(),
	})
	if err != nil {
		t.Fatalf("task service: %v", err)
	}
	noteSvc, err := notifications.NewService(notifications.Dependencies{
		Repository: provider.Notifications(),
	})
	if err != nil {
		t.Fatalf("notification service: %v", err)
	}

	cat, err := NewCatalog(Dependencies{
		Projects:      projectSvc,
		Tasks:         taskSvc,
		Notifications: noteSvc,
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	if err := cat.CreateProject.Execute(ctx, projects.CreateInput{Name: "Lanzamiento"}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	list, err := provider.Projects().List(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected 1 project, got %d", list.Total)
	}
	projectID := list.Items[0].ID

	if err := cat.CreateTask.Execute(ctx, tasks.CreateInput{Title: "Deploy", ProjectID: projectID}); err != nil {
		t.Fatalf("create task: %v", err)
	}
	taskList, err := provider.Tasks().List(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if taskList.Total != 1 {
		t.Fatalf("expected 1 task, got %d", taskList.Total)
	}

	if err := cat.UpdateTaskStatus.Execute(ctx, TaskStatusUpdate{ID: taskList.Items[0].ID, Status: domain.TaskStatusInProgress}); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, err := provider.Tasks().GetByID(ctx, taskList.Items[0].ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != domain.TaskStatusInProgress {
		t.Fatalf("unexpected status %s", got.Status)
	}

	if err := cat.CreateNotification.Execute(ctx, notifications.CreateInput{
		Title:    "Nueva Tarea",
		Message:  "Se ha creado una nueva tarea: Deploy",
		Severity: domain.SeverityInfo,
		UserID:   "u-1",
	}); err != nil {
		t.Fatalf("create notification: %v", err)
	}
	notes, err := provider.Notifications().ListByUser(ctx, "u-1", store.ListOptions{})
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if notes.Total != 1 {
		t.Fatalf("expected 1 notification, got %d", notes.Total)
	}

	if err := cat.MarkNotificationRead.Execute(ctx, NotificationMarkRead{ID: notes.Items[0].ID}); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	read, err := provider.Notifications().GetByID(ctx, notes.Items[0].ID)
	if err != nil {
		t.Fatalf("get notification: %v", err)
	}
	if !read.Read {
		t.Fatal("expected notification to be read")
	}

	if err := cat.DeleteProject.Execute(ctx, ProjectDelete{ID: projectID}); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	if _, err := provider.Projects().GetByID(ctx, projectID); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := cat.DeleteProject.Execute(ctx, ProjectDelete{ID: uuid.Nil}); err == nil {
		t.Fatal("expected missing id error")
	}
}
