package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"car-market/internal/domain"
)

func TestAuthorizeMutation(t *testing.T) {
	listing := &domain.Listing{ID: "car-1", OwnerID: "alice"}

	require.NoError(t, authorizeMutation(listing, "alice"))
	require.ErrorIs(t, authorizeMutation(listing, "bob"), ErrNotOwner)
	require.ErrorIs(t, authorizeMutation(nil, "alice"), ErrListingNotFound)
}
