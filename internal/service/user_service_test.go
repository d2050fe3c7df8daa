package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"car-market/internal/domain"
	"car-market/internal/repository"
	"car-market/internal/validate"
)

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store.users, "")
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: " alice ", Email: "Alice@Example.com", Password: "s3cret-pass"}, "")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)
	require.Empty(t, user.PasswordHash)

	logged, err := svc.Authenticate(ctx, LoginInput{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)
	require.Empty(t, logged.PasswordHash)

	_, err = svc.Authenticate(ctx, LoginInput{Username: "alice", Password: "wrong-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, LoginInput{Username: "nobody", Password: "s3cret-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "s3cret-pass"}, "")
	require.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "s3cret-pass"}, "")
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUserService_RegisterValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store.users, "")

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"short username", RegisterInput{Username: "al", Email: "al@example.com", Password: "s3cret-pass"}, "username"},
		{"bad email", RegisterInput{Username: "alice", Email: "not-an-email", Password: "s3cret-pass"}, "email"},
		{"short password", RegisterInput{Username: "alice", Email: "alice@example.com", Password: "short"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in, "")
			var verr *validate.Error
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestUserService_RegistrationSecret(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store.users, "let-me-in")
	in := RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cret-pass"}

	_, err := svc.Register(context.Background(), in, "guess")
	require.ErrorIs(t, err, ErrInvalidRegistrationPassword)

	_, err = svc.Register(context.Background(), in, "let-me-in")
	require.NoError(t, err)
}

func TestUserService_Profile(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store.users, "")
	alice := store.addUser(t, "alice")

	profile, err := svc.Profile(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", profile.Username)
	require.Empty(t, profile.PasswordHash)

	_, err = svc.Profile(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfileUsernameUniqueness(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store.users, "")
	alice := store.addUser(t, "alice")
	store.addUser(t, "bob")
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Username: ptr("bob")})
	require.ErrorIs(t, err, ErrUsernameTaken)

	same, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Username: ptr("alice")})
	require.NoError(t, err)
	require.Equal(t, "alice", same.Username)

	renamed, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Username: ptr("alicia")})
	require.NoError(t, err)
	require.Equal(t, "alicia", renamed.Username)
	require.Empty(t, renamed.PasswordHash)
}

func TestUserService_UpdateProfileTrimsUsername(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store.users, "")
	alice := store.addUser(t, "alice")
	store.addUser(t, "bob")
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Username: ptr(" bob")})
	require.ErrorIs(t, err, ErrUsernameTaken)

	renamed, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Username: ptr("  alicia ")})
	require.NoError(t, err)
	require.Equal(t, "alicia", renamed.Username)

	stored, err := store.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alicia", stored.Username)

	_, err = svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Username: ptr("  ab  ")})
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "username", verr.Field)
}

// lateRivalUsers lets the uniqueness lookup pass and then loses the write to
// the unique index, as when another account takes the name in between.
type lateRivalUsers struct {
	repository.UserRepository
}

func (lateRivalUsers) FindByUsernameExcept(context.Context, string, string) (*domain.User, error) {
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (lateRivalUsers) UpdateProfile(context.Context, string, domain.ProfilePatch) (*domain.User, error) {
	return nil, fmt.Errorf("update user profile: %w", repository.ErrConflict)
}

func TestUserService_UpdateProfileLosesRace(t *testing.T) {
	store := newTestStore(t)
	alice := store.addUser(t, "alice")
	svc := NewUserService(lateRivalUsers{store.users}, "")

	_, err := svc.UpdateProfile(context.Background(), alice.ID, ProfileUpdateInput{Username: ptr("bob")})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserService_UpdateProfileBio(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store.users, "")
	alice := store.addUser(t, "alice")
	ctx := context.Background()

	withBio, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Bio: ptr("collects hatchbacks")})
	require.NoError(t, err)
	require.Equal(t, "collects hatchbacks", withBio.Bio)

	renamed, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Username: ptr("alicia")})
	require.NoError(t, err)
	require.Equal(t, "collects hatchbacks", renamed.Bio)

	cleared, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Bio: ptr("")})
	require.NoError(t, err)
	require.Empty(t, cleared.Bio)

	_, err = svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Bio: ptr(strings.Repeat("x", 201))})
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, `"bio" length must be less than or equal to 200 characters long`, verr.Message)

	_, err = svc.UpdateProfile(ctx, alice.ID, ProfileUpdateInput{Username: ptr("ab")})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "username", verr.Field)

	_, err = svc.UpdateProfile(ctx, "ghost", ProfileUpdateInput{Bio: ptr("hi")})
	require.ErrorIs(t, err, ErrUserNotFound)
}
