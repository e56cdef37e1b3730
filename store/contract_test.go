package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/model"
)

// runContract exercises the behaviour every TaskStore backend must share.
// User ids are random so backends with shared state do not interfere.
func runContract(t *testing.T, s TaskStore) {
	ctx := context.Background()
	owner := "u-" + uuid.NewString()
	other := "u-" + uuid.NewString()

	newTask := func(userID, title string) model.Task {
		return model.Task{
			UserID:           userID,
			Title:            title,
			Description:      "d",
			Priority:         "Low",
			DueDate:          "2024-03-05",
			ReminderDateTime: "2024-03-05 09:00",
		}
	}

	t.Run("insert assigns fresh ids", func(t *testing.T) {
		id1, err := s.Insert(ctx, newTask(owner, "first"))
		require.NoError(t, err)
		id2, err := s.Insert(ctx, newTask(owner, "second"))
		require.NoError(t, err)
		_, err = s.Insert(ctx, newTask(other, "foreign"))
		require.NoError(t, err)

		assert.NotEmpty(t, id1)
		assert.NotEqual(t, id1, id2)
	})

	t.Run("scan filters by user", func(t *testing.T) {
		docs, err := s.Scan(ctx, ByUser(owner))
		require.NoError(t, err)
		require.Len(t, docs, 2)
		for _, d := range docs {
			assert.Equal(t, owner, d.Task.UserID)
			assert.Equal(t, d.ID, d.Task.TaskID)
		}
	})

	t.Run("update replaces editable fields only", func(t *testing.T) {
		docs, err := s.Scan(ctx, ByUser(owner))
		require.NoError(t, err)
		target := docs[0]

		err = s.UpdateFields(ctx, target.ID, Fields{
			Title:            "renamed",
			Description:      "new",
			Priority:         "High",
			DueDate:          "2025-01-02",
			ReminderDateTime: "2025-01-02 18:30",
		})
		require.NoError(t, err)

		docs, err = s.Scan(ctx, ByUser(owner))
		require.NoError(t, err)
		var got model.Task
		for _, d := range docs {
			if d.ID == target.ID {
				got = d.Task
			}
		}
		assert.Equal(t, "renamed", got.Title)
		assert.Equal(t, "High", got.Priority)
		assert.Equal(t, "2025-01-02 18:30", got.ReminderDateTime)
		assert.Equal(t, owner, got.UserID)
	})

	t.Run("delete removes document", func(t *testing.T) {
		docs, err := s.Scan(ctx, ByUser(owner))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, docs[0].ID))

		after, err := s.Scan(ctx, ByUser(owner))
		require.NoError(t, err)
		assert.Len(t, after, 1)
		assert.NotEqual(t, docs[0].ID, after[0].ID)
	})

	t.Run("missing document", func(t *testing.T) {
		assert.ErrorIs(t, s.Delete(ctx, "missing-"+uuid.NewString()), ErrNotFound)
		assert.ErrorIs(t, s.UpdateFields(ctx, "missing-"+uuid.NewString(), Fields{Title: "x"}), ErrNotFound)
	})
}
