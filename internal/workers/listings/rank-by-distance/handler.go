// internal/workers/listings/rank-by-distance/handler.go
package rankbydistance

import (
	"context"
	"fmt"

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
	TaskType = "rank-listings-by-distance"
)

type Handler struct {
	config    *Config
	source    listings.Source
	validator *validation.Validator
	obs       *observability.Observability
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, source listings.Source, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	taskLogger := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		source:    source,
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
	ref := input.ReferencePoint
	if !validation.ValidateCoordinates(ref.Latitude, ref.Longitude) {
		return nil, apperrors.NewInvalidCoordinatesError(ref.Latitude, ref.Longitude)
	}

	radius := h.config.DefaultRadiusKm
	if input.RadiusKm != nil {
		radius = *input.RadiusKm
	}
	if radius <= 0 {
		return nil, apperrors.NewInputValidationFailedError(fmt.Sprintf("radiusKm: must be positive, got %v", radius))
	}

	candidates, err := listings.Resolve(ctx, h.source, h.config.SourceName, input.Listings, input.ListingIDs)
	if err != nil {
		return nil, err
	}

	output := &Output{
		RankedListings: make([]RankedListing, 0, len(candidates)),
		RadiusKm:       radius,
	}

	for _, listing := range geo.SortByDistance(candidates, ref.Latitude, ref.Longitude) {
		entry := RankedListing{Listing: listing}
		if d, ok := geo.DistanceFrom(listing, ref.Latitude, ref.Longitude); ok {
			entry.DistanceKm = &d
			entry.WithinRadius = d <= radius
		} else {
			output.UnpinnedCount++
		}

		if entry.WithinRadius {
			output.WithinRadiusCount++
		} else if input.WithinRadiusOnly {
			continue
		}
		output.RankedListings = append(output.RankedListings, entry)
	}

	h.obs.RecordListings(ctx, TaskType, len(candidates))
	h.logger.Info("listings ranked by distance", map[string]interface{}{
		"ranked":       len(candidates),
		"withinRadius": output.WithinRadiusCount,
		"unpinned":     output.UnpinnedCount,
		"radiusKm":     radius,
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
