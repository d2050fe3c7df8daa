package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"car-market/internal/domain"
	"car-market/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "cars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newRepos(t *testing.T) (repository.UserRepository, repository.ListingRepository) {
	t.Helper()
	db := openTestDB(t)
	users := NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))
	listings := NewListingRepository(db)
	require.NoError(t, listings.Init(context.Background()))
	return users, listings
}

func createUser(t *testing.T, users repository.UserRepository, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}
