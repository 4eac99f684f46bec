package bunrepo

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
)

// Provider bundles the bun-backed repositories over a single connection.
type Provider struct {
	db            *bun.DB
	projects      *ProjectRepository
	tasks         *TaskRepository
	users         *UserRepository
	notifications *NotificationRepository
}

var _ store.Provider = (*Provider)(nil)

// NewProvider wires every repository against db.
func NewProvider(db *bun.DB) *Provider {
	return &Provider{
		db:            db,
		projects:      NewProjectRepository(db),
		tasks:         NewTaskRepository(db),
		users:         NewUserRepository(db),
		notifications: NewNotificationRepository(db),
	}
}

func (p *Provider) Projects() store.ProjectRepository           { return p.projects }
func (p *Provider) Tasks() store.TaskRepository                 { return p.tasks }
func (p *Provider) Users() store.UserRepository                 { return p.users }
func (p *Provider) Notifications() store.NotificationRepository { return p.notifications }

// Connect opens a sqlite-backed bun DB for the given DSN.
func Connect(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.DriverName(), dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// EnsureSchema creates the application tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*domain.Project)(nil),
		(*domain.Task)(nil),
		(*domain.User)(nil),
		(*domain.Notification)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
