package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocation_Keys(t *testing.T) {
	loc := Location{Bucket: "photos", KeyPrefix: "/car-market/"}

	require.True(t, loc.Enabled())
	require.Equal(t, "car-market/listings/abc/", loc.ListingPrefix("abc"))
	require.Equal(t, "car-market/listings/abc/p1.jpg", loc.PhotoKey("abc", "p1", ".jpg"))
}

func TestLocation_NoPrefix(t *testing.T) {
	loc := Location{Bucket: "photos"}
	require.Equal(t, "listings/abc/", loc.ListingPrefix("abc"))
}

func TestLocation_Disabled(t *testing.T) {
	require.False(t, Location{Bucket: "  "}.Enabled())
}
