// internal/workers/requests/summarize-requests/handler.go
package summarizerequests

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "rooms-workers/internal/common/errors"
	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/common/metrics"
	"rooms-workers/internal/common/validation"
	"rooms-workers/internal/models"
)

const (
	TaskType = "summarize-requests"
)

type Handler struct {
	config    *Config
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, log logger.Logger) *Handler {
	taskLogger := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		validator: validator,
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

// execute splits requests into those received on the user's listings and
// those the user sent as a seeker. A request on the user's own listing that
// the user also sent appears on both sides.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, apperrors.NewInputValidationFailedError("userId is required")
	}
	switch input.InitialTab {
	case "", TabReceived, TabSent:
	default:
		return nil, apperrors.NewInputValidationFailedError(fmt.Sprintf("initialTab: unknown tab %q", input.InitialTab))
	}

	owned := make(map[string]bool, len(input.ListingIDs))
	for _, id := range input.ListingIDs {
		owned[id] = true
	}

	output := &Output{
		Received:    []models.Request{},
		Sent:        []models.Request{},
		HasListings: len(input.ListingIDs) > 0,
	}
	for _, req := range input.Requests {
		if owned[req.ListingID] {
			output.Received = append(output.Received, req)
		}
		if req.SeekerID == input.UserID {
			output.Sent = append(output.Sent, req)
		}
	}
	output.ReceivedCounts = countByStatus(output.Received)
	output.SentCounts = countByStatus(output.Sent)
	output.DefaultTab = defaultTab(output.HasListings, input.InitialTab)

	h.logger.Info("requests summarized", map[string]interface{}{
		"userId":     input.UserID,
		"received":   output.ReceivedCounts.Total,
		"sent":       output.SentCounts.Total,
		"defaultTab": output.DefaultTab,
	})

	return output, nil
}

func countByStatus(requests []models.Request) models.RequestCounts {
	counts := models.RequestCounts{Total: len(requests)}
	for _, req := range requests {
		switch req.Status {
		case models.RequestPending:
			counts.Pending++
		case models.RequestAccepted:
			counts.Accepted++
		case models.RequestRejected:
			counts.Rejected++
		}
	}
	return counts
}

// defaultTab falls back to sent when the user owns no listings, whatever
// tab was asked for.
func defaultTab(hasListings bool, initialTab string) string {
	if !hasListings {
		return TabSent
	}
	if initialTab == "" {
		return TabReceived
	}
	return initialTab
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
