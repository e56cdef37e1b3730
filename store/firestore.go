package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskmanager/model"
)

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) tasks() *firestore.CollectionRef {
	return s.client.Collection(Collection)
}

// Insert lets Firestore assign the document id.
func (s *FirestoreStore) Insert(ctx context.Context, t model.Task) (string, error) {
	ref, _, err := s.tasks().Add(ctx, t)
	if err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) UpdateFields(ctx context.Context, id string, fields Fields) error {
	var updates []firestore.Update
	for path, value := range fields.ToMap() {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	if _, err := s.tasks().Doc(id).Update(ctx, updates); err != nil {
		return mapFirestoreError("update task", err)
	}
	return nil
}

// Delete fails with ErrNotFound for a vanished document instead of
// Firestore's default silent success.
func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if _, err := s.tasks().Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return mapFirestoreError("delete task", err)
	}
	return nil
}

func (s *FirestoreStore) Scan(ctx context.Context, filter Filter) ([]Document, error) {
	q := s.tasks().Query
	if !filter.IsZero() {
		q = q.Where(filter.Field, "==", filter.Equals)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scan tasks: %w", err)
		}

		var t model.Task
		if err := snap.DataTo(&t); err != nil {
			return nil, fmt.Errorf("decode task %s: %w", snap.Ref.ID, err)
		}
		t.TaskID = snap.Ref.ID
		docs = append(docs, Document{ID: snap.Ref.ID, Task: t})
	}
	return docs, nil
}

func mapFirestoreError(op string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
