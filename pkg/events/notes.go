package events

import (
	"fmt"

	"github.com/taskboardhq/taskboard/pkg/domain"
)

// Note is the human-readable triple derived deterministically from an event.
// Targeted dispatches persist it as a Notification and forward it to the
// secondary sink; the Message also travels on the live wire.
type Note struct {
	Title    string
	Message  string
	Severity string
}

// Translator resolves localized copy. It matches the go-i18n contract so a
// real translator can be plugged in; a nil translator uses the built-in
// Spanish catalog below.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

type noteTemplate struct {
	titleKey   string
	messageKey string
	title      string
	message    string
	severity   string
}

// Built-in copy, matching the original tracker's notification strings.
var noteTemplates = map[string]noteTemplate{
	string(ProjectCreated): {
		titleKey:   "event.project_created.title",
		messageKey: "event.project_created.message",
		title:      "Nuevo Proyecto",
		message:    "Se ha creado el proyecto: %s",
		severity:   domain.SeverityInfo,
	},
	string(ProjectUpdated): {
		titleKey:   "event.project_updated.title",
		messageKey: "event.project_updated.message",
		title:      "Proyecto Actualizado",
		message:    "Proyecto actualizado: %s",
		severity:   domain.SeverityInfo,
	},
	string(ProjectDeleted): {
		titleKey:   "event.project_deleted.title",
		messageKey: "event.project_deleted.message",
		title:      "Proyecto Eliminado",
		message:    "Proyecto eliminado: %s",
		severity:   domain.SeverityWarning,
	},
	string(TaskCreated): {
		titleKey:   "event.task_created.title",
		messageKey: "event.task_created.message",
		title:      "Nueva Tarea",
		message:    "Nueva tarea creada: %s",
		severity:   domain.SeverityInfo,
	},
	"task.assigned": {
		titleKey:   "event.task_assigned.title",
		messageKey: "event.task_assigned.message",
		title:      "Nueva Tarea Asignada",
		message:    "Se te ha asignado la tarea: %s",
		severity:   domain.SeverityInfo,
	},
	string(TaskUpdated): {
		titleKey:   "event.task_updated.title",
		messageKey: "event.task_updated.message",
		title:      "Tarea Actualizada",
		message:    "Tarea actualizada: %s",
		severity:   domain.SeverityInfo,
	},
	string(TaskDeleted): {
		titleKey:   "event.task_deleted.title",
		messageKey: "event.task_deleted.message",
		title:      "Tarea Eliminada",
		message:    "Tarea eliminada: %s",
		severity:   domain.SeverityWarning,
	},
	string(TaskStatusChanged): {
		titleKey:   "event.task_status_changed.title",
		messageKey: "event.task_status_changed.message",
		title:      "Estado de Tarea Actualizado",
		message:    "La tarea \"%s\" cambió a: %s",
		severity:   domain.SeveritySuccess,
	},
}

// Render produces the (title, message, severity) triple for an event. The
// translator, when present, overrides the built-in copy per locale.
func Render(e Event, tr Translator, locale string) Note {
	key := string(e.Kind)
	if e.Kind == TaskCreated && e.Audience.Targeted() {
		key = "task.assigned"
	}
	tpl, ok := noteTemplates[key]
	if !ok {
		return Note{
			Title:    string(e.Kind),
			Message:  e.Subject.Name,
			Severity: domain.SeverityInfo,
		}
	}

	args := []any{e.Subject.Name}
	if e.Kind == TaskStatusChanged {
		args = []any{e.Subject.Name, e.Subject.NewStatus}
	}

	note := Note{
		Title:    translate(tr, locale, tpl.titleKey, tpl.title),
		Message:  translate(tr, locale, tpl.messageKey, tpl.message, args...),
		Severity: tpl.severity,
	}
	return note
}

func translate(tr Translator, locale, key, fallback string, args ...any) string {
	if tr != nil {
		if out, err := tr.Translate(locale, key, args...); err == nil && out != "" && out != key {
			return out
		}
	}
	if len(args) == 0 {
		return fallback
	}
	return fmt.Sprintf(fallback, args...)
}
