package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"car-market/internal/domain"
	"car-market/internal/repository"
	"car-market/internal/validate"
)

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput, providedSecret string) (*domain.User, error)
	Authenticate(ctx context.Context, in LoginInput) (*domain.User, error)
	Profile(ctx context.Context, callerID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, callerID string, in ProfileUpdateInput) (*domain.User, error)
}

type userService struct {
	users          repository.UserRepository
	registerSecret string
}

// NewUserService builds the user service. An empty registerSecret leaves
// registration open.
func NewUserService(users repository.UserRepository, registerSecret string) UserService {
	return &userService{
		users:          users,
		registerSecret: strings.TrimSpace(registerSecret),
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput, providedSecret string) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	if s.registerSecret != "" {
		providedSecret = strings.TrimSpace(providedSecret)
		if subtle.ConstantTimeCompare([]byte(providedSecret), []byte(s.registerSecret)) != 1 {
			return nil, ErrInvalidRegistrationPassword
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, in LoginInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) Profile(ctx context.Context, callerID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, callerID string, in ProfileUpdateInput) (*domain.User, error) {
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		in.Username = &username
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	if in.Username != nil && *in.Username != "" {
		_, err := s.users.FindByUsernameExcept(ctx, *in.Username, callerID)
		switch {
		case err == nil:
			return nil, ErrUsernameTaken
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	// the unique index still decides when two updates race past the lookup
	user, err := s.users.UpdateProfile(ctx, callerID, in.patch())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
