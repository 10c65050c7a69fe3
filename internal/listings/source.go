// Package listings resolves read-only listing snapshots by id from Postgres,
// the marketplace REST backend or Elasticsearch, optionally through Redis.
package listings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apperrors "rooms-workers/internal/common/errors"
	"rooms-workers/internal/models"
)

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrInvalidListingID = errors.New("invalid listing id")
)

// Source looks up listings by id.
//
// GetListings returns listings in the order of ids and fails with a
// LookupError for the first id it cannot resolve.
type Source interface {
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	GetListings(ctx context.Context, ids []string) ([]models.Listing, error)
}

// LookupError ties ErrListingNotFound or ErrInvalidListingID to an id.
type LookupError struct {
	ID  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.ID)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func notFound(id string) error {
	return &LookupError{ID: id, Err: ErrListingNotFound}
}

// ValidateID rejects ids that are not UUIDs before any backend is queried.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &LookupError{ID: id, Err: ErrInvalidListingID}
	}
	return nil
}

func validateIDs(ids []string) error {
	for _, id := range ids {
		if err := ValidateID(id); err != nil {
			return err
		}
	}
	return nil
}

// orderByIDs arranges found in the order of ids.
func orderByIDs(ids []string, found map[string]models.Listing) ([]models.Listing, error) {
	out := make([]models.Listing, 0, len(ids))
	for _, id := range ids {
		listing, ok := found[id]
		if !ok {
			return nil, notFound(id)
		}
		out = append(out, listing)
	}
	return out, nil
}

// ToJobError maps a Source error onto the worker error codes.
func ToJobError(err error, source string) error {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		if errors.Is(lookupErr.Err, ErrInvalidListingID) {
			return apperrors.NewInvalidListingIDError(lookupErr.ID)
		}
		return apperrors.NewListingNotFoundError(lookupErr.ID)
	}
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return apperrors.NewAPIError(apiErr)
	}
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return apperrors.NewListingSourceFailedError(source, err)
}

// ErrNoSource is returned when listings are requested by id but no source
// is configured.
var ErrNoSource = errors.New("no listing source configured")

// Resolve returns inline when it is non-empty and otherwise looks up ids in
// src. Errors come back mapped by ToJobError.
func Resolve(ctx context.Context, src Source, sourceName string, inline []models.Listing, ids []string) ([]models.Listing, error) {
	if len(inline) > 0 {
		return inline, nil
	}
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}
	if src == nil {
		return nil, apperrors.NewListingSourceFailedError(sourceName, ErrNoSource)
	}
	found, err := src.GetListings(ctx, ids)
	if err != nil {
		return nil, ToJobError(err, sourceName)
	}
	return found, nil
}

// ResolveOne is Resolve for a single listing.
func ResolveOne(ctx context.Context, src Source, sourceName string, inline *models.Listing, id string) (*models.Listing, error) {
	if inline != nil {
		return inline, nil
	}
	if src == nil {
		return nil, apperrors.NewListingSourceFailedError(sourceName, ErrNoSource)
	}
	listing, err := src.GetListing(ctx, id)
	if err != nil {
		return nil, ToJobError(err, sourceName)
	}
	return listing, nil
}
