package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskmanager/model"
	"taskmanager/services"
)

// TokenIssuer signs access tokens for a signed-in user.
type TokenIssuer interface {
	CreateAccessToken(userID, email string) (string, time.Time, error)
}

// Accounts is the account-backed Authenticator: users live in the Users
// collection with bcrypt password hashes, sessions are signed access tokens.
type Accounts struct {
	users  services.UserRepository
	tokens TokenIssuer
	logger *zap.Logger
	now    func() time.Time
}

func NewAccounts(users services.UserRepository, tokens TokenIssuer, logger *zap.Logger) *Accounts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accounts{users: users, tokens: tokens, logger: logger, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Accounts) SignIn(ctx context.Context, email, password string) (Session, error) {
	const op = "signin"
	email = normalizeEmail(email)

	user, err := a.users.GetUserByEmail(ctx, email)
	if errors.Is(err, services.ErrUserNotFound) {
		return Session{}, &AuthError{Op: op, Err: ErrInvalidCredentials}
	}
	if err != nil {
		a.logger.Error("user lookup failed", zap.String("operation", op), zap.Error(err))
		return Session{}, &AuthError{Op: op, Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return Session{}, &AuthError{Op: op, Err: ErrInvalidCredentials}
	}
	if user.Active == "2" {
		return Session{}, &AuthError{Op: op, Err: ErrAccountDisabled}
	}

	return a.issue(op, user)
}

func (a *Accounts) SignUp(ctx context.Context, email, password string) (Session, error) {
	const op = "signup"
	email = normalizeEmail(email)

	exists, err := a.users.UserExist(ctx, email)
	if err != nil {
		a.logger.Error("failed to check existing email", zap.String("operation", op), zap.Error(err))
		return Session{}, &AuthError{Op: op, Err: err}
	}
	if exists {
		return Session{}, &AuthError{Op: op, Err: ErrEmailTaken}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, &AuthError{Op: op, Err: err}
	}

	user := model.User{
		UserID:    uuid.New().String(),
		Email:     email,
		Password:  string(hashed),
		Active:    "1",
		CreatedAt: a.now(),
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		a.logger.Error("failed to create user", zap.String("operation", op), zap.Error(err))
		return Session{}, &AuthError{Op: op, Err: err}
	}
	a.logger.Info("user registered", zap.String("userId", user.UserID))

	return a.issue(op, user)
}

func (a *Accounts) issue(op string, user model.User) (Session, error) {
	token, exp, err := a.tokens.CreateAccessToken(user.UserID, user.Email)
	if err != nil {
		return Session{}, &AuthError{Op: op, Err: err}
	}
	return Session{
		UserID:      user.UserID,
		Email:       user.Email,
		AccessToken: token,
		ExpiresAt:   exp,
	}, nil
}
