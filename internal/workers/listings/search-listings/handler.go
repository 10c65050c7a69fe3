// internal/workers/listings/search-listings/handler.go
package searchlistings

import (
	"context"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "rooms-workers/internal/common/errors"
	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/common/metrics"
	"rooms-workers/internal/common/observability"
	"rooms-workers/internal/common/validation"
	"rooms-workers/internal/geo"
	"rooms-workers/internal/listings"
)

const (
	TaskType = "search-listings"
)

// Searcher is satisfied by *listings.Searcher.
type Searcher interface {
	Search(ctx context.Context, q listings.SearchQuery) (*listings.SearchResult, error)
}

type Handler struct {
	config    *Config
	searcher  Searcher
	validator *validation.Validator
	obs       *observability.Observability
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, searcher Searcher, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	taskLogger := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		searcher:  searcher,
		validator: validator,
		obs:       obs,
		errors:    apperrors.NewErrorHandler(taskLogger),
		logger:    taskLogger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := h.validator.DecodeInput(TaskType, job.Variables, &input); err != nil {
		h.failJob(client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, apperrors.NewInputValidationFailedError("city is required")
	}
	if ref := input.ReferencePoint; ref != nil && !validation.ValidateCoordinates(ref.Latitude, ref.Longitude) {
		return nil, apperrors.NewInvalidCoordinatesError(ref.Latitude, ref.Longitude)
	}

	result, err := h.searcher.Search(ctx, listings.SearchQuery{
		City:     city,
		Locality: strings.TrimSpace(input.Locality),
		MaxRent:  input.MaxRent,
		Size:     input.Size,
	})
	if err != nil {
		return nil, err
	}

	output := &Output{
		Listings:  result.Listings,
		TotalHits: result.TotalHits,
		TookMs:    result.TookMs,
		SortedBy:  SortedByRent,
	}
	if ref := input.ReferencePoint; ref != nil {
		output.Listings = geo.SortByDistance(result.Listings, ref.Latitude, ref.Longitude)
		output.SortedBy = SortedByDistance
	}

	h.obs.RecordListings(ctx, TaskType, len(output.Listings))
	h.logger.Info("listings searched", map[string]interface{}{
		"city":      city,
		"locality":  input.Locality,
		"totalHits": output.TotalHits,
		"returned":  len(output.Listings),
		"sortedBy":  output.SortedBy,
	})

	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.RecordCompleted(TaskType)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
