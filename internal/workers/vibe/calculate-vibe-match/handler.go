// internal/workers/vibe/calculate-vibe-match/handler.go
package calculatevibematch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "rooms-workers/internal/common/errors"
	"rooms-workers/internal/common/logger"
	"rooms-workers/internal/common/metrics"
	"rooms-workers/internal/common/observability"
	"rooms-workers/internal/common/validation"
	"rooms-workers/internal/listings"
	"rooms-workers/internal/miko"
	"rooms-workers/internal/models"
)

const (
	TaskType = "calculate-vibe-match"
)

type Handler struct {
	config    *Config
	source    listings.Source
	validator *validation.Validator
	obs       *observability.Observability
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
	now       func() time.Time
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
	seekerTags, err := parseSeekerTags(input.SeekerTags)
	if err != nil {
		return nil, err
	}
	if input.MinPercent < 0 || input.MinPercent > 100 {
		return nil, apperrors.NewInputValidationFailedError(fmt.Sprintf("minPercent: %d is outside 0..100", input.MinPercent))
	}

	now := h.now()
	if input.ReferenceDate != "" {
		t, ok := miko.ParseMoveInDate(input.ReferenceDate)
		if !ok {
			return nil, apperrors.NewInputValidationFailedError(fmt.Sprintf("referenceDate: invalid date %q", input.ReferenceDate))
		}
		now = t
	}

	candidates, err := listings.Resolve(ctx, h.source, h.config.SourceName, input.Listings, input.ListingIDs)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(candidates))
	for _, listing := range candidates {
		tags := miko.DeriveTags(listing, now)
		percent := miko.MatchPercent(seekerTags, tags)
		if percent < input.MinPercent {
			continue
		}
		matches = append(matches, Match{
			ListingID:    listing.ID,
			Listing:      listing,
			MatchScore:   miko.MatchScore(seekerTags, tags),
			MatchPercent: percent,
			MatchedTags:  matchedTags(seekerTags, tags),
			Tags:         miko.SortTags(tags),
		})
	}

	// Equal percentages keep the order the listings came in.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercent > matches[j].MatchPercent
	})

	h.obs.RecordListings(ctx, TaskType, len(candidates))
	h.logger.Info("vibe match calculated", map[string]interface{}{
		"seekerTags": len(seekerTags),
		"scored":     len(candidates),
		"matches":    len(matches),
		"minPercent": input.MinPercent,
	})

	return &Output{
		Matches:    matches,
		MatchCount: len(matches),
		Scored:     len(candidates),
	}, nil
}

// parseSeekerTags rejects ids outside the vibe tag set. Duplicates are kept
// since each one counts towards the score.
func parseSeekerTags(raw []string) ([]models.VibeTagID, error) {
	tags := make([]models.VibeTagID, 0, len(raw))
	for _, r := range raw {
		tag := models.VibeTagID(r)
		if !miko.IsValid(tag) {
			return nil, apperrors.NewInvalidVibeTagError(r)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// matchedTags lists the distinct seeker tags the listing carries, in seeker order.
func matchedTags(seekerTags, listingTags []models.VibeTagID) []models.VibeTagID {
	have := make(map[models.VibeTagID]bool, len(listingTags))
	for _, tag := range listingTags {
		have[tag] = true
	}
	matched := []models.VibeTagID{}
	seen := make(map[models.VibeTagID]bool, len(seekerTags))
	for _, tag := range seekerTags {
		if have[tag] && !seen[tag] {
			seen[tag] = true
			matched = append(matched, tag)
		}
	}
	return matched
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
