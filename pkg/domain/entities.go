package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// StringList stores []string as JSON.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	return json.Marshal([]string(s))
}

func (s *StringList) Scan(value any) error {
	if s == nil {
		return errors.New("StringList: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(s))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(s))
	default:
		return fmt.Errorf("StringList: unsupported type %T", value)
	}
}

// Project groups tasks under a single initiative. Status values follow the
// original tracker vocabulary.
type Project struct {
	bun.BaseModel `bun:"table:projects"`
	RecordMeta

	Name        string     `bun:",nullzero,notnull" json:"name"`
	Description string     `bun:",nullzero" json:"description,omitempty"`
	Status      string     `bun:",nullzero" json:"status"`
	Owner       string     `bun:",nullzero" json:"owner,omitempty"`
	Members     StringList `bun:"type:jsonb,nullzero" json:"members,omitempty"`
}

// Task is a unit of work, optionally assigned to a user.
type Task struct {
	bun.BaseModel `bun:"table:tasks"`
	RecordMeta

	Title       string    `bun:",nullzero,notnull" json:"title"`
	Description string    `bun:",nullzero" json:"description,omitempty"`
	ProjectID   uuid.UUID `bun:",nullzero,type:uuid" json:"project_id"`
	Project     *Project  `bun:"rel:belongs-to,join:project_id=id" json:"project,omitempty"`
	Assignee    string    `bun:",nullzero" json:"assignee,omitempty"`
	Priority    string    `bun:",nullzero" json:"priority"`
	Status      string    `bun:",nullzero" json:"status"`
	DueDate     time.Time `bun:",nullzero" json:"due_date,omitempty"`
}

// User is a tracker account. Deletion deactivates instead of removing.
type User struct {
	bun.BaseModel `bun:"table:users"`
	RecordMeta

	Name   string `bun:",nullzero,notnull" json:"name"`
	Email  string `bun:",unique,nullzero,notnull" json:"email"`
	Role   string `bun:",nullzero" json:"role"`
	Active bool   `bun:",nullzero,default:true" json:"active"`
}

// Notification is the durable per-recipient record produced when a targeted
// event is dispatched. Only the read flag mutates after creation.
type Notification struct {
	bun.BaseModel `bun:"table:notifications"`
	RecordMeta

	Title    string `bun:",nullzero,notnull" json:"title"`
	Message  string `bun:",nullzero,notnull" json:"message"`
	Severity string `bun:",nullzero,notnull" json:"severity"`
	UserID   string `bun:",nullzero,notnull" json:"user_id"`
	Read     bool   `bun:",nullzero" json:"read"`
}

// Project status vocabulary.
const (
	ProjectStatusPlanned    = "planificado"
	ProjectStatusInProgress = "en-progreso"
	ProjectStatusCompleted  = "completado"
	ProjectStatusPaused     = "pausado"
)

// Task status vocabulary.
const (
	TaskStatusPending    = "pendiente"
	TaskStatusInProgress = "en-progreso"
	TaskStatusCompleted  = "completada"
	TaskStatusCancelled  = "cancelada"
)

// Task priorities.
const (
	PriorityHigh   = "alta"
	PriorityMedium = "media"
	PriorityLow    = "baja"
)

// Notification severities.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// User roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "usuario"
)

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPlanned, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusPaused:
		return true
	}
	return false
}

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known task priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ValidSeverity reports whether s is a known notification severity.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// ValidRole reports whether r is a known user role.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}
