package app

import (
	i18n "github.com/goliatone/go-i18n"
)

// translations returns the built-in notification copy per locale.
func translations() i18n.Translations {
	return i18n.Translations{
		"es": newCatalog("es", map[string]string{
			"event.project_created.title":        "Nuevo Proyecto",
			"event.project_created.message":      "Se ha creado el proyecto: %s",
			"event.project_updated.title":        "Proyecto Actualizado",
			"event.project_updated.message":      "Proyecto actualizado: %s",
			"event.project_deleted.title":        "Proyecto Eliminado",
			"event.project_deleted.message":      "Proyecto eliminado: %s",
			"event.task_created.title":           "Nueva Tarea",
			"event.task_created.message":         "Nueva tarea creada: %s",
			"event.task_assigned.title":          "Nueva Tarea Asignada",
			"event.task_assigned.message":        "Se te ha asignado la tarea: %s",
			"event.task_updated.title":           "Tarea Actualizada",
			"event.task_updated.message":         "Tarea actualizada: %s",
			"event.task_deleted.title":           "Tarea Eliminada",
			"event.task_deleted.message":         "Tarea eliminada: %s",
			"event.task_status_changed.title":    "Estado de Tarea Actualizado",
			"event.task_status_changed.message":  `La tarea "%s" cambió a: %s`,
		}),
		"en": newCatalog("en", map[string]string{
			"event.project_created.title":        "New Project",
			"event.project_created.message":      "Project created: %s",
			"event.project_updated.title":        "Project Updated",
			"event.project_updated.message":      "Project updated: %s",
			"event.project_deleted.title":        "Project Deleted",
			"event.project_deleted.message":      "Project deleted: %s",
			"event.task_created.title":           "New Task",
			"event.task_created.message":         "New task created: %s",
			"event.task_assigned.title":          "New Task Assigned",
			"event.task_assigned.message":        "You have been assigned the task: %s",
			"event.task_updated.title":           "Task Updated",
			"event.task_updated.message":         "Task updated: %s",
			"event.task_deleted.title":           "Task Deleted",
			"event.task_deleted.message":         "Task deleted: %s",
			"event.task_status_changed.title":    "Task Status Updated",
			"event.task_status_changed.message":  `Task "%s" moved to: %s`,
		}),
	}
}

func newCatalog(locale string, entries map[string]string) *i18n.TranslationCatalog {
	catalog := &i18n.TranslationCatalog{
		Locale:   i18n.Locale{Code: locale},
		Messages: make(map[string]i18n.Message),
	}
	for key, template := range entries {
		msg := i18n.Message{}
		msg.SetContent(template)
		catalog.Messages[key] = msg
	}
	return catalog
}

func newTranslator(defaultLocale string) (i18n.Translator, error) {
	if defaultLocale == "" {
		defaultLocale = "es"
	}
	store := i18n.NewStaticStore(translations())
	return i18n.NewSimpleTranslator(store, i18n.WithTranslatorDefaultLocale(defaultLocale))
}
