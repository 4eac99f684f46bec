package memory

import "github.com/taskboardhq/taskboard/pkg/interfaces/store"

// Provider bundles in-memory repositories, used by tests and local runs.
type Provider struct {
	projects      *ProjectRepository
	tasks         *TaskRepository
	users         *UserRepository
	notifications *NotificationRepository
}

var _ store.Provider = (*Provider)(nil)

func NewProvider() *Provider {
	return &Provider{
		projects:      NewProjectRepository(),
		tasks:         NewTaskRepository(),
		users:         NewUserRepository(),
		notifications: NewNotificationRepository(),
	}
}

func (p *Provider) Projects() store.ProjectRepository           { return p.projects }
func (p *Provider) Tasks() store.TaskRepository                 { return p.tasks }
func (p *Provider) Users() store.UserRepository                 { return p.users }
func (p *Provider) Notifications() store.NotificationRepository { return p.notifications }
