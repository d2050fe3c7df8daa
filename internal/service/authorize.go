package service

import "car-market/internal/domain"

// authorizeMutation decides whether callerID may change or remove listing.
// Reads are never authorized here; any authenticated caller may read.
func authorizeMutation(listing *domain.Listing, callerID string) error {
	if listing == nil {
		return ErrListingNotFound
	}
	if !listing.OwnedBy(callerID) {
		return ErrNotOwner
	}
	return nil
}
