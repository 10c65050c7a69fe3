// internal/workers/vibe/derive-vibe-tags/handler.go
package derivevibetags

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "rooms-workers/internal/common/errors"
	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/common/metrics"
	"rooms-workers/internal/common/validation"
	"rooms-workers/internal/listings"
	"rooms-workers/internal/miko"
)

const (
	TaskType = "derive-vibe-tags"
)

type Handler struct {
	config    *Config
	source    listings.Source
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
	now       func() time.Time
}

func NewHandler(config *Config, source listings.Source, validator *validation.Validator, log logger.Logger) *Handler {
	taskLogger := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		source:    source,
		validator: validator,
		errors:    apperrors.NewErrorHandler(taskLogger),
		logger:    taskLogger,
		now:       time.Now,
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
	if input.Listing == nil && input.ListingID == "" {
		return nil, apperrors.NewInputValidationFailedError("listingId or listing is required")
	}

	now, err := h.referenceTime(input.ReferenceDate)
	if err != nil {
		return nil, err
	}

	listing, err := listings.ResolveOne(ctx, h.source, h.config.SourceName, input.Listing, input.ListingID)
	if err != nil {
		return nil, err
	}

	maxLabels := h.config.MaxLabels
	if input.MaxLabels != nil {
		maxLabels = *input.MaxLabels
	}

	// Labels follow derivation order, so attached tags come first.
	tags := miko.DeriveTags(*listing, now)
	output := &Output{
		ListingID: listing.ID,
		Tags:      miko.SortTags(tags),
		Labels:    miko.LabelsFor(tags, maxLabels),
		TagCount:  len(tags),
	}

	h.logger.Info("vibe tags derived", map[string]interface{}{
		"listingId": listing.ID,
		"tagCount":  output.TagCount,
		"labels":    output.Labels,
	})

	return output, nil
}

func (h *Handler) referenceTime(value string) (time.Time, error) {
	if value == "" {
		return h.now(), nil
	}
	t, ok := miko.ParseMoveInDate(value)
	if !ok {
		return time.Time{}, apperrors.NewInputValidationFailedError(fmt.Sprintf("referenceDate: invalid date %q", value))
	}
	return t, nil
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
