package store

import (
	"context"
	"errors"

	"taskmanager/model"
)

// Collection is the document collection (or table) holding tasks.
const Collection = "tasks"

var ErrNotFound = errors.New("task not found")

// Fields is the partial record written by an update: only the editable
// fields. taskId and userId are never part of it.
type Fields struct {
	Title            string
	Description      string
	Priority         string
	DueDate          string
	ReminderDateTime string
}

func (f Fields) ToMap() map[string]interface{} {
	return map[string]interface{}{
		model.FieldTitle:            f.Title,
		model.FieldDescription:      f.Description,
		model.FieldPriority:         f.Priority,
		model.FieldDueDate:          f.DueDate,
		model.FieldReminderDateTime: f.ReminderDateTime,
	}
}

func (f Fields) apply(t *model.Task) {
	t.Title = f.Title
	t.Description = f.Description
	t.Priority = f.Priority
	t.DueDate = f.DueDate
	t.ReminderDateTime = f.ReminderDateTime
}

// Filter is a single equality predicate. The zero value matches everything.
type Filter struct {
	Field  string
	Equals string
}

func ByUser(userID string) Filter {
	return Filter{Field: model.FieldUserID, Equals: userID}
}

func (f Filter) IsZero() bool { return f.Field == "" }

// Document is one scanned record with its store-assigned id.
type Document struct {
	ID   string
	Task model.Task
}

// TaskStore is the remote document collection. No ordering, paging or
// transactions are offered.
type TaskStore interface {
	Insert(ctx context.Context, t model.Task) (string, error)
	UpdateFields(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context, filter Filter) ([]Document, error)
}

func fieldValue(t model.Task, field string) (string, bool) {
	switch field {
	case model.FieldUserID:
		return t.UserID, true
	case model.FieldTitle:
		return t.Title, true
	case model.FieldDescription:
		return t.Description, true
	case model.FieldPriority:
		return t.Priority, true
	case model.FieldDueDate:
		return t.DueDate, true
	case model.FieldReminderDateTime:
		return t.ReminderDateTime, true
	}
	return "", false
}
