// Package listingstest provides an in-memory listings.Source for tests.
package listingstest

import (
	"context"
	"sync"

	"rooms-workers/internal/listings"
	"rooms-workers/internal/models"
)

// Source serves fixed listings and counts lookups. Setting Err makes every
// lookup fail with it.
type Source struct {
	mu       sync.Mutex
	listings map[string]models.Listing
	calls    int
	Err      error
}

func NewSource(items ...models.Listing) *Source {
	s := &Source{listings: make(map[string]models.Listing, len(items))}
	for _, l := range items {
		s.listings[l.ID] = l
	}
	return s
}

func (s *Source) GetListing(_ context.Context, id string) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Err != nil {
		return nil, s.Err
	}
	if err := listings.ValidateID(id); err != nil {
		return nil, err
	}
	listing, ok := s.listings[id]
	if !ok {
		return nil, &listings.LookupError{ID: id, Err: listings.ErrListingNotFound}
	}
	return &listing, nil
}

func (s *Source) GetListings(_ context.Context, ids []string) ([]models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Listing, 0, len(ids))
	for _, id := range ids {
		if err := listings.ValidateID(id); err != nil {
			return nil, err
		}
		listing, ok := s.listings[id]
		if !ok {
			return nil, &listings.LookupError{ID: id, Err: listings.ErrListingNotFound}
		}
		out = append(out, listing)
	}
	return out, nil
}

// Calls returns how many lookups were made.
func (s *Source) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
