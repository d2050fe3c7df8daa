package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"car-market/internal/domain"
	"car-market/internal/repository"
	"car-market/internal/storage"
	"car-market/internal/validate"
)

// MaxPhotoSize bounds an uploaded listing photo.
const MaxPhotoSize = 5 << 20

var photoFormats = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/webp", ".webp"},
}

// photoFormat sniffs head and returns the canonical content type and key extension.
func photoFormat(head []byte) (contentType, ext string, ok bool) {
	for mt := mimetype.Detect(head); mt != nil; mt = mt.Parent() {
		for _, f := range photoFormats {
			if mt.Is(f.mime) {
				return f.mime, f.ext, true
			}
		}
	}
	return "", "", false
}

// ListingService runs every listing operation. Mutations go through the same
// fetch, authorize and conditional write steps.
type ListingService interface {
	Create(ctx context.Context, callerID string, in ListingInput) (*domain.ListingDetails, error)
	Update(ctx context.Context, id, callerID string, in ListingUpdateInput) (*domain.ListingDetails, error)
	Delete(ctx context.Context, id, callerID string) error
	List(ctx context.Context) ([]domain.ListingDetails, error)
	Get(ctx context.Context, id string) (*domain.ListingDetails, error)
	AttachPhoto(ctx context.Context, id, callerID string, photo Photo) (*domain.ListingDetails, error)
}

// Photo is an uploaded image. Size may be -1 when unknown.
type Photo struct {
	Body io.Reader
	Size int64
}

// PhotoConfig tells the service where listing photos live.
type PhotoConfig struct {
	Store    storage.Service
	Location storage.Location
	URLTTL   time.Duration
}

func (c PhotoConfig) enabled() bool {
	return c.Store != nil && c.Location.Enabled()
}

// Purger removes the stored photos of a deleted listing.
type Purger interface {
	Enqueue(listingID string)
}

type listingService struct {
	listings repository.ListingRepository
	users    repository.UserRepository
	photos   PhotoConfig
	purger   Purger
	logger   logrus.FieldLogger
}

func NewListingService(
	listings repository.ListingRepository,
	users repository.UserRepository,
	photos PhotoConfig,
	purger Purger,
	logger logrus.FieldLogger,
) ListingService {
	if photos.URLTTL <= 0 {
		photos.URLTTL = 15 * time.Minute
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &listingService{
		listings: listings,
		users:    users,
		photos:   photos,
		purger:   purger,
		logger:   logger,
	}
}

func (s *listingService) Create(ctx context.Context, callerID string, in ListingInput) (*domain.ListingDetails, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	listing := in.listing(callerID)
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, listing)
}

func (s *listingService) Update(ctx context.Context, id, callerID string, in ListingUpdateInput) (*domain.ListingDetails, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.fetchForMutation(ctx, id, callerID); err != nil {
		return nil, err
	}

	updated, err := s.listings.UpdateOwned(ctx, id, callerID, in.patch())
	if err != nil {
		return nil, translateListingErr(err)
	}
	return s.enrichOne(ctx, updated)
}

func (s *listingService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.fetchForMutation(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.listings.DeleteOwned(ctx, id, callerID); err != nil {
		return translateListingErr(err)
	}

	if s.purger != nil {
		s.purger.Enqueue(id)
	}
	return nil
}

func (s *listingService) List(ctx context.Context) ([]domain.ListingDetails, error) {
	listings, err := s.listings.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, listings)
}

func (s *listingService) Get(ctx context.Context, id string) (*domain.ListingDetails, error) {
	listing, err := s.listings.Get(ctx, id)
	if err != nil {
		return nil, translateListingErr(err)
	}
	return s.enrichOne(ctx, listing)
}

func (s *listingService) AttachPhoto(ctx context.Context, id, callerID string, photo Photo) (*domain.ListingDetails, error) {
	if !s.photos.enabled() {
		return nil, ErrPhotoStorageDisabled
	}
	if photo.Body == nil {
		return nil, &validate.Error{Field: "photo", Message: `"photo" is required`}
	}
	if photo.Size > MaxPhotoSize {
		return nil, photoTooLarge()
	}

	existing, err := s.fetchForMutation(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	head := make([]byte, 3072)
	n, err := io.ReadFull(photo.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	head = head[:n]
	contentType, ext, ok := photoFormat(head)
	if !ok {
		return nil, &validate.Error{Field: "photo", Message: `"photo" must be a jpeg, png or webp image`}
	}

	// the declared size can lie; cap what is actually sent
	body := &limitedReader{r: io.MultiReader(bytes.NewReader(head), photo.Body), left: MaxPhotoSize}

	key := s.photos.Location.PhotoKey(id, uuid.NewString(), ext)
	if err := s.photos.Store.PutObject(ctx, s.photos.Location.Bucket, key, body, contentType); err != nil {
		if body.exceeded {
			return nil, photoTooLarge()
		}
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	updated, err := s.listings.SetPhotoOwned(ctx, id, callerID, key)
	if err != nil {
		return nil, translateListingErr(err)
	}

	if existing.PhotoKey != "" && existing.PhotoKey != key {
		if _, err := s.photos.Store.DeletePrefix(ctx, s.photos.Location.Bucket, existing.PhotoKey); err != nil {
			s.logger.WithFields(logrus.Fields{
				"listing_id": id,
				"key":        existing.PhotoKey,
			}).Warnf("remove replaced photo: %v", err)
		}
	}

	return s.enrichOne(ctx, updated)
}

// fetchForMutation loads the listing and checks that callerID owns it.
func (s *listingService) fetchForMutation(ctx context.Context, id, callerID string) (*domain.Listing, error) {
	listing, err := s.listings.Get(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err := authorizeMutation(listing, callerID); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) enrichOne(ctx context.Context, listing *domain.Listing) (*domain.ListingDetails, error) {
	details, err := s.enrich(ctx, []domain.Listing{*listing})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *listingService) enrich(ctx context.Context, listings []domain.Listing) ([]domain.ListingDetails, error) {
	seen := make(map[string]struct{}, len(listings))
	ownerIDs := make([]string, 0, len(listings))
	for i := range listings {
		if _, ok := seen[listings[i].OwnerID]; ok {
			continue
		}
		seen[listings[i].OwnerID] = struct{}{}
		ownerIDs = append(ownerIDs, listings[i].OwnerID)
	}

	owners, err := s.users.Summaries(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	details := make([]domain.ListingDetails, len(listings))
	for i := range listings {
		owner, ok := owners[listings[i].OwnerID]
		if !ok {
			owner = domain.OwnerSummary{ID: listings[i].OwnerID}
		}
		details[i] = domain.ListingDetails{
			Listing:  listings[i],
			Owner:    owner,
			PhotoURL: s.photoURL(ctx, &listings[i]),
		}
	}
	return details, nil
}

func (s *listingService) photoURL(ctx context.Context, listing *domain.Listing) string {
	if listing.PhotoKey == "" || !s.photos.enabled() {
		return ""
	}
	url, err := s.photos.Store.GetObjectURL(ctx, s.photos.Location.Bucket, listing.PhotoKey, s.photos.URLTTL)
	if err != nil {
		s.logger.WithField("listing_id", listing.ID).Warnf("presign photo url: %v", err)
		return ""
	}
	return url
}

func translateListingErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrListingNotFound
	}
	return err
}

func photoTooLarge() error {
	return &validate.Error{Field: "photo", Message: `"photo" must be at most 5 MiB`}
}

type limitedReader struct {
	r        io.Reader
	left     int64
	exceeded bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.left <= 0 {
		// one more byte tells a file of exactly the limit apart from a bigger one
		var extra [1]byte
		if n, _ := l.r.Read(extra[:]); n > 0 {
			l.exceeded = true
			return 0, errors.New("photo exceeds size limit")
		}
		return 0, io.EOF
	}
	if int64(len(p)) > l.left {
		p = p[:l.left]
	}
	n, err := l.r.Read(p)
	l.left -= int64(n)
	return n, err
}
