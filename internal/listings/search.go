package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "rooms-workers/internal/common/errors"
	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/models"
)

const maxSearchSize = 200

// SearchQuery filters candidate listings. City is required.
type SearchQuery struct {
	City     string
	Locality string
	MaxRent  *float64
	Size     int
}

// SearchResult holds the matched listings in index order.
type SearchResult struct {
	Listings  []models.Listing
	TotalHits int64
	TookMs    int64
}

// Searcher queries the listings index in Elasticsearch.
type Searcher struct {
	client      *elasticsearch.Client
	index       string
	defaultSize int
	logger      logger.Logger
}

func NewSearcher(client *elasticsearch.Client, index string, defaultSize int, log logger.Logger) *Searcher {
	return &Searcher{
		client:      client,
		index:       index,
		defaultSize: defaultSize,
		logger:      log.WithFields(map[string]interface{}{"source": "elasticsearch", "index": index}),
	}
}

// BuildSearchQuery returns the request body for q: exact filters on city and
// locality, a rent ceiling, cheapest first.
func BuildSearchQuery(q SearchQuery) map[string]interface{} {
	filters := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"city": q.City}},
	}
	if q.Locality != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"locality": q.Locality},
		})
	}
	if q.MaxRent != nil {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"rent": map[string]interface{}{"lte": *q.MaxRent}},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort": []interface{}{
			map[string]interface{}{"rent": map[string]interface{}{"order": "asc"}},
		},
	}
}

func (s *Searcher) size(requested int) int {
	switch {
	case requested <= 0:
		return s.defaultSize
	case requested > maxSearchSize:
		return maxSearchSize
	default:
		return requested
	}
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs q against the index.
func (s *Searcher) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	body, err := json.Marshal(BuildSearchQuery(q))
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithSize(s.size(q.Size)),
		s.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewSearchTimeoutError(s.index)
		}
		return nil, apperrors.NewSearchQueryFailedError(s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(s.index, fmt.Errorf("status %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(s.index, fmt.Errorf("decode response: %w", err))
	}

	result := &SearchResult{
		Listings:  make([]models.Listing, 0, len(parsed.Hits.Hits)),
		TotalHits: parsed.Hits.Total.Value,
		TookMs:    parsed.Took,
	}
	for _, hit := range parsed.Hits.Hits {
		var listing models.Listing
		if err := json.Unmarshal(hit.Source, &listing); err != nil {
			s.logger.Warn("skipping undecodable hit", map[string]interface{}{"docId": hit.ID, "error": err})
			continue
		}
		if listing.ID == "" {
			listing.ID = hit.ID
		}
		result.Listings = append(result.Listings, listing)
	}

	s.logger.Debug("search completed", map[string]interface{}{
		"city":      q.City,
		"locality":  q.Locality,
		"totalHits": result.TotalHits,
		"returned":  len(result.Listings),
		"tookMs":    result.TookMs,
	})
	return result, nil
}
