// internal/workers/listings/rank-by-distance/handler_test.go
package rankbydistance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rooms-workers/internal/common/config"
	apperrors "rooms-workers/internal/common/errors"
	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/geo"
	"rooms-workers/internal/listings/listingstest"
	"rooms-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

const (
	listingNear    = "6f1c2a1e-8a4b-4f6e-9d1a-2b3c4d5e6f70"
	listingFar     = "0b7e9c55-3f0d-4d3c-a6c1-1d2e3f4a5b6c"
	listingMid     = "9d4a1b2c-7e6f-4a5b-8c9d-0e1f2a3b4c5d"
	listingNoCoord = "3c2b1a09-8f7e-4d6c-b5a4-938271605f4e"
	listingZero    = "a1b2c3d4-e5f6-4a7b-8c9d-e0f1a2b3c4d5"
)

// Pune city centre.
var testRef = geo.Point{Latitude: 18.5204, Longitude: 73.8567}

func floatPtr(v float64) *float64 {
	return &v
}

func createTestConfig() *Config {
	return LoadConfig(config.WorkerConfig{Enabled: true, Timeout: 5000}, config.ListingSourcePostgres)
}

func createTestHandler(t *testing.T, src *listingstest.Source) *Handler {
	return NewHandler(createTestConfig(), src, nil, nil, logger.NewZapAdapter(zaptest.NewLogger(t)))
}

// createTestListings are about 2 km, 6 km and 120 km from testRef, plus one
// without coordinates and one on the equator.
func createTestListings() []models.Listing {
	return []models.Listing{
		{ID: listingFar, Latitude: floatPtr(19.0760), Longitude: floatPtr(72.8777)},
		{ID: listingNoCoord},
		{ID: listingMid, Latitude: floatPtr(18.5204 + 0.054), Longitude: floatPtr(73.8567)},
		{ID: listingNear, Latitude: floatPtr(18.5204 + 0.018), Longitude: floatPtr(73.8567)},
		{ID: listingZero, Latitude: floatPtr(0), Longitude: floatPtr(73.8567)},
	}
}

func rankedIDs(entries []RankedListing) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Listing.ID
	}
	return ids
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_SortsNearestFirst(t *testing.T) {
	h := createTestHandler(t, nil)

	output, err := h.Execute(context.Background(), &Input{ReferencePoint: testRef, Listings: createTestListings()})
	require.NoError(t, err)

	require.Len(t, output.RankedListings, 5)
	assert.Equal(t, []string{listingNear, listingMid, listingFar}, rankedIDs(output.RankedListings[:3]))
	assert.ElementsMatch(t, []string{listingNoCoord, listingZero}, rankedIDs(output.RankedListings[3:]))

	near := output.RankedListings[0]
	require.NotNil(t, near.DistanceKm)
	assert.InDelta(t, 2.0, *near.DistanceKm, 0.1)
	assert.True(t, near.WithinRadius)

	far := output.RankedListings[2]
	assert.InDelta(t, 120, *far.DistanceKm, 10)
	assert.False(t, far.WithinRadius)

	for _, e := range output.RankedListings[3:] {
		assert.Nil(t, e.DistanceKm)
		assert.False(t, e.WithinRadius)
	}

	assert.Equal(t, geo.DefaultRadiusKm, output.RadiusKm)
	assert.Equal(t, 2, output.WithinRadiusCount)
	assert.Equal(t, 2, output.UnpinnedCount)
}

func TestExecute_WithinRadiusOnly(t *testing.T) {
	h := createTestHandler(t, nil)

	output, err := h.Execute(context.Background(), &Input{
		ReferencePoint:   testRef,
		Listings:         createTestListings(),
		RadiusKm:         floatPtr(3),
		WithinRadiusOnly: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{listingNear}, rankedIDs(output.RankedListings))
	assert.Equal(t, 1, output.WithinRadiusCount)
	assert.Equal(t, 3.0, output.RadiusKm)
}

func TestExecute_ListingIDsThroughSource(t *testing.T) {
	src := listingstest.NewSource(createTestListings()...)
	h := createTestHandler(t, src)

	output, err := h.Execute(context.Background(), &Input{
		ReferencePoint: testRef,
		ListingIDs:     []string{listingFar, listingNear},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{listingNear, listingFar}, rankedIDs(output.RankedListings))
}

func TestExecute_Empty(t *testing.T) {
	h := createTestHandler(t, nil)

	output, err := h.Execute(context.Background(), &Input{ReferencePoint: testRef})
	require.NoError(t, err)
	assert.Empty(t, output.RankedListings)
	assert.NotNil(t, output.RankedListings)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		code  apperrors.ErrorCode
	}{
		{"latitude out of range", &Input{ReferencePoint: geo.Point{Latitude: 91, Longitude: 0}}, apperrors.ErrCodeInvalidCoordinates},
		{"longitude out of range", &Input{ReferencePoint: geo.Point{Latitude: 0, Longitude: -181}}, apperrors.ErrCodeInvalidCoordinates},
		{"zero radius", &Input{ReferencePoint: testRef, RadiusKm: floatPtr(0)}, apperrors.ErrCodeInputValidationFailed},
		{"unknown listing", &Input{ReferencePoint: testRef, ListingIDs: []string{listingNear}}, apperrors.ErrCodeListingNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, listingstest.NewSource())
			_, err := h.Execute(context.Background(), tt.input)

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr), "got %v", err)
			assert.Equal(t, tt.code, stdErr.Code)
		})
	}
}
