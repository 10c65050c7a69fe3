package listings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rooms-workers/internal/common/errors"
	commonhttp "rooms-workers/internal/common/http"
)

func newTestAPIClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAPIClient(server.URL+"/", "token-123", commonhttp.NewClient(2*time.Second), createTestLogger(t))
}

func TestAPIClient_GetListing(t *testing.T) {
	want := createTestListing(listingA)
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings/"+listingA, r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(want)
	})

	got, err := client.GetListing(context.Background(), listingA)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestAPIClient_GetListing_NonArrayMikoTags(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"` + listingA + `","rent":9000,"roomType":"Shared","city":"Pune","locality":"Baner","mikoTags":"calm_vibes"}`))
	})

	got, err := client.GetListing(context.Background(), listingA)
	require.NoError(t, err)
	assert.Equal(t, listingA, got.ID)
	assert.Empty(t, got.MikoTags)
}

func TestAPIClient_GetListing_ErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		assertFunc func(t *testing.T, err error)
	}{
		{
			name:   "404 is a lookup error",
			status: http.StatusNotFound,
			body:   `{"statusCode":404,"message":"Listing not found"}`,
			assertFunc: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrListingNotFound)
			},
		},
		{
			name:   "401 keeps the api error",
			status: http.StatusUnauthorized,
			body:   `{"statusCode":401,"message":"Unauthorized"}`,
			assertFunc: func(t *testing.T, err error) {
				var apiErr *apperrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.ClassifyAPIError(apiErr))
			},
		},
		{
			name:   "400 with message list",
			status: http.StatusBadRequest,
			body:   `{"statusCode":400,"message":["id must be a UUID","bad request"]}`,
			assertFunc: func(t *testing.T, err error) {
				var apiErr *apperrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, "id must be a UUID, bad request", apperrors.ErrorMessage(apiErr))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.GetListing(context.Background(), listingA)
			require.Error(t, err)
			tt.assertFunc(t, err)
		})
	}
}

func TestAPIClient_GetListing_InvalidIDSkipsRequest(t *testing.T) {
	called := false
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	_, err := client.GetListing(context.Background(), "../admin")
	assert.ErrorIs(t, err, ErrInvalidListingID)
	assert.False(t, called)
}

func TestAPIClient_GetListings(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/listings/"):]
		_ = json.NewEncoder(w).Encode(createTestListing(id))
	})

	got, err := client.GetListings(context.Background(), []string{listingB, listingA})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, listingB, got[0].ID)
	assert.Equal(t, listingA, got[1].ID)
}
