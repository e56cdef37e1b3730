package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"

	"taskmanager/model"
)

const usersCollection = "Users"

var ErrUserNotFound = errors.New("user not found")

// UserRepository stores account records used by the sign in/up flow.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	UserExist(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u model.User) error
}

type FirestoreUsers struct {
	client *firestore.Client
}

func NewFirestoreUsers(client *firestore.Client) *FirestoreUsers {
	return &FirestoreUsers{client: client}
}

func (r *FirestoreUsers) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	docs, err := r.client.Collection(usersCollection).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return model.User{}, fmt.Errorf("query user: %w", err)
	}
	if len(docs) == 0 {
		return model.User{}, ErrUserNotFound
	}

	var user model.User
	if err := docs[0].DataTo(&user); err != nil {
		return model.User{}, fmt.Errorf("failed to parse user data: %w", err)
	}
	return user, nil
}

func (r *FirestoreUsers) UserExist(ctx context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *FirestoreUsers) CreateUser(ctx context.Context, u model.User) error {
	if _, err := r.client.Collection(usersCollection).Doc(u.UserID).Set(ctx, u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// MemoryUsers is the in-process UserRepository for TASK_STORE=memory and tests.
type MemoryUsers struct {
	mu      sync.RWMutex
	byEmail map[string]model.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byEmail: map[string]model.User{}}
}

func (r *MemoryUsers) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUsers) UserExist(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *MemoryUsers) CreateUser(ctx context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return fmt.Errorf("email %s already registered", u.Email)
	}
	r.byEmail[u.Email] = u
	return nil
}
