package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"taskmanager/model"
)

// MemoryStore keeps documents in insertion order. Used for tests and
// TASK_STORE=memory.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]model.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]model.Task{}}
}

func (s *MemoryStore) Insert(ctx context.Context, t model.Task) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	t.TaskID = ""
	s.docs[id] = t
	s.order = append(s.order, id)
	return id, nil
}

func (s *MemoryStore) UpdateFields(ctx context.Context, id string, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	fields.apply(&t)
	s.docs[id] = t
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Scan(ctx context.Context, filter Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0, len(s.order))
	for _, id := range s.order {
		t := s.docs[id]
		if !filter.IsZero() {
			v, ok := fieldValue(t, filter.Field)
			if !ok {
				return nil, fmt.Errorf("scan: unknown field %q", filter.Field)
			}
			if v != filter.Equals {
				continue
			}
		}
		t.TaskID = id
		out = append(out, Document{ID: id, Task: t})
	}
	return out, nil
}

// Put stores a record under a fixed id, bypassing validation. Tests use it
// to seed legacy or malformed documents.
func (s *MemoryStore) Put(id string, t model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		s.order = append(s.order, id)
	}
	t.TaskID = ""
	s.docs[id] = t
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
