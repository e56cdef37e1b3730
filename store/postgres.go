package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskmanager/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id                 TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id            TEXT NOT NULL,
	title              TEXT NOT NULL DEFAULT '',
	description        TEXT NOT NULL DEFAULT '',
	priority           TEXT NOT NULL DEFAULT '',
	due_date           TEXT NOT NULL DEFAULT '',
	reminder_date_time TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id);
`

// columns maps document field names to table columns. Only these fields
// can be used in a scan filter.
var columns = map[string]string{
	model.FieldUserID:           "user_id",
	model.FieldTitle:            "title",
	model.FieldDescription:      "description",
	model.FieldPriority:         "priority",
	model.FieldDueDate:          "due_date",
	model.FieldReminderDateTime: "reminder_date_time",
}

// PostgresStore keeps the document shape in a flat table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate tasks: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, t model.Task) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, priority, due_date, reminder_date_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, t.UserID, t.Title, t.Description, t.Priority, t.DueDate, t.ReminderDateTime).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) UpdateFields(ctx context.Context, id string, f Fields) error {
	cmd, err := s.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, due_date = $5, reminder_date_time = $6
		WHERE id = $1
	`, id, f.Title, f.Description, f.Priority, f.DueDate, f.ReminderDateTime)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update task: %w", ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	cmd, err := s.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete task: %w", ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Scan(ctx context.Context, filter Filter) ([]Document, error) {
	query := `
		SELECT id, user_id, title, description, priority, due_date, reminder_date_time
		FROM tasks`
	var args []any
	if !filter.IsZero() {
		col, ok := columns[filter.Field]
		if !ok {
			return nil, fmt.Errorf("scan: unknown field %q", filter.Field)
		}
		query += " WHERE " + col + " = $1"
		args = append(args, filter.Equals)
	}
	query += " ORDER BY created_at, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.TaskID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.ReminderDateTime); err != nil {
			return nil, fmt.Errorf("scan tasks: %w", err)
		}
		docs = append(docs, Document{ID: t.TaskID, Task: t})
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	return docs, nil
}
