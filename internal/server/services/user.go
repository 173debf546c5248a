// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and resolving the user
// behind an access token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/Divert12/divert-ai-crew/internal/common"
	"github.com/Divert12/divert-ai-crew/internal/server/auth"
	"github.com/Divert12/divert-ai-crew/internal/server/config"
	"github.com/Divert12/divert-ai-crew/internal/server/models"
	"github.com/Divert12/divert-ai-crew/internal/server/repositories/repomanager"
	"github.com/Divert12/divert-ai-crew/internal/server/repositories/users"
)

var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrValidation         = errors.New("validation failed")
	ErrInternal           = errors.New("internal error")
)

// ValidationError names the offending field of a rejected request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Session is a successful login.
type Session struct {
	AccessToken string
	User        *models.User
}

// UserService provides the account operations behind /auth.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server
// config. db may be nil when m keeps its data in memory.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates an active account. Usernames and emails are unique;
// the username is checked first.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, fmt.Errorf("error looking up username: %w", err)
	}
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, fmt.Errorf("error looking up email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := repo.Create(ctx, &models.User{Username: username, Email: email, HashedPassword: hash})
	switch {
	case errors.Is(err, users.ErrDuplicateUsername):
		return nil, ErrUsernameTaken
	case errors.Is(err, users.ErrDuplicateEmail):
		return nil, ErrEmailTaken
	case err != nil:
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the password and issues an access token. Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// burn the same bcrypt time as a real check
			_, _ = auth.CheckPassword(dummyHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, ErrInternal
	}

	ok, err := auth.CheckPassword(user.HashedPassword, password)
	if err != nil {
		return nil, ErrInternal
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, ErrInternal
	}
	return &Session{AccessToken: token, User: user}, nil
}

// CurrentUser resolves the account an access token was issued to. Tokens
// that are expired, invalid or name a missing user yield
// common.ErrInvalidToken (or common.ErrTokenExpired).
func (s *UserService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	username, err := auth.GetUsernameFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, ErrInternal
	}
	return user, nil
}

func validateRegistration(username, email, password string) error {
	if username == "" {
		return &ValidationError{Field: "username", Message: "Field required"}
	}
	if email == "" {
		return &ValidationError{Field: "email", Message: "Field required"}
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return &ValidationError{Field: "email", Message: "value is not a valid email address"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "Field required"}
	}
	if len(password) > auth.MaxPasswordLength {
		return &ValidationError{Field: "password",
			Message: fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordLength)}
	}
	return nil
}

var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("divert-dummy-password")
	return h
})
