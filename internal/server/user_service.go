package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/types"
)

// UserStore is the subset of the database the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, fullName, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdateUser(ctx context.Context, u *db.User) error
}

// UserService implements registration and login.
type UserService struct {
	store    UserStore
	password *config.PasswordConfig
}

// NewUserService creates a UserService with the given dependencies.
func NewUserService(store UserStore, password *config.PasswordConfig) *UserService {
	return &UserService{store: store, password: password}
}

func apiUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	return &types.User{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		AccountTier: u.AccountTier,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Register creates a new account with a hashed password.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	hash, err := s.password.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.store.CreateUser(ctx, req.Email, req.FullName, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("created user not found: %s", id)
	}

	return apiUser(user), nil
}

// Login verifies credentials and returns the account. The error is the same
// for unknown email and wrong password.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.password.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, &ErrInvalidCredentials{}
	}

	return apiUser(user), nil
}

// GetUser returns the account for an ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &ErrNotFound{Resource: "user", ID: id}
	}
	return apiUser(user), nil
}
