package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"car-market/internal/domain"
	"car-market/internal/repository"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	users, _ := newRepos(t)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	require.NotEmpty(t, alice.ID)

	byID, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)
	require.Equal(t, "hash", byID.PasswordHash)
	require.True(t, alice.CreatedAt.Equal(byID.CreatedAt))

	byName, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, alice.ID, byName.ID)

	_, err = users.GetByUsername(ctx, "Alice")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = users.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_CreateConflict(t *testing.T) {
	users, _ := newRepos(t)
	createUser(t, users, "alice")

	err := users.Create(context.Background(), &domain.User{Username: "alice", Email: "x@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestUserRepository_FindByUsernameExcept(t *testing.T) {
	users, _ := newRepos(t)
	ctx := context.Background()
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	_, err := users.FindByUsernameExcept(ctx, "alice", alice.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	found, err := users.FindByUsernameExcept(ctx, "alice", bob.ID)
	require.NoError(t, err)
	require.Equal(t, alice.ID, found.ID)
}

func TestUserRepository_Summaries(t *testing.T) {
	users, _ := newRepos(t)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	got, err := users.Summaries(context.Background(), []string{alice.ID, bob.ID, "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, domain.OwnerSummary{ID: bob.ID, Username: "bob", Email: "bob@example.com"}, got[bob.ID])

	empty, err := users.Summaries(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	users, _ := newRepos(t)
	ctx := context.Background()
	alice := createUser(t, users, "alice")
	createUser(t, users, "bob")

	bio := "likes wagons"
	updated, err := users.UpdateProfile(ctx, alice.ID, domain.ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, "alice", updated.Username)
	require.Equal(t, bio, updated.Bio)

	taken := "bob"
	_, err = users.UpdateProfile(ctx, alice.ID, domain.ProfilePatch{Username: &taken})
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = users.UpdateProfile(ctx, "ghost", domain.ProfilePatch{Bio: &bio})
	require.ErrorIs(t, err, repository.ErrNotFound)
}
