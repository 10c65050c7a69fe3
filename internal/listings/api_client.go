package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "rooms-workers/internal/common/errors"
	commonhttp "rooms-workers/internal/common/http"
	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/models"
)

// APIClient reads listings from the marketplace REST backend.
type APIClient struct {
	baseURL string
	token   string
	http    *commonhttp.Client
	logger  logger.Logger
}

func NewAPIClient(baseURL, token string, httpClient *commonhttp.Client, log logger.Logger) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		logger:  log.WithFields(map[string]interface{}{"source": "api"}),
	}
}

// GetListing calls GET /listings/{id}. Non-2xx responses come back as
// *errors.APIError; a 404 is reported as a LookupError.
func (c *APIClient) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Get(ctx, c.baseURL+"/listings/"+url.PathEscape(id), header)
	if err != nil {
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}

	if !resp.IsSuccess() {
		apiErr := apperrors.DecodeAPIError(resp.StatusCode, resp.Body)
		c.logger.Warn("backend rejected listing lookup", map[string]interface{}{
			"listingId":  id,
			"statusCode": apiErr.StatusCode,
			"message":    apperrors.ErrorMessage(apiErr),
			"errorCode":  string(apperrors.ClassifyAPIError(apiErr)),
		})
		if apiErr.StatusCode == http.StatusNotFound {
			return nil, notFound(id)
		}
		return nil, apiErr
	}

	var listing models.Listing
	if err := json.Unmarshal(resp.Body, &listing); err != nil {
		return nil, fmt.Errorf("decode listing %s: %w", id, err)
	}
	if listing.ID == "" {
		listing.ID = id
	}
	return &listing, nil
}

// GetListings resolves ids one by one; the backend has no batch endpoint.
func (c *APIClient) GetListings(ctx context.Context, ids []string) ([]models.Listing, error) {
	if err := validateIDs(ids); err != nil {
		return nil, err
	}
	out := make([]models.Listing, 0, len(ids))
	for _, id := range ids {
		listing, err := c.GetListing(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *listing)
	}
	return out, nil
}
