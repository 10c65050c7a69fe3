package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rooms-workers/internal/common/logger"
)

func TestObservability_RecordsIntoRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := NewWithRegisterer("rooms-workers-test", reg, logger.NewTestLogger(t))
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordJob(ctx, "derive-vibe-tags", StatusCompleted, 12*time.Millisecond)
	obs.RecordJob(ctx, "derive-vibe-tags", StatusFailed, 3*time.Millisecond)
	obs.RecordListings(ctx, "rank-listings-by-distance", 4)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["jobs_processed_total"], "families: %v", names)
	assert.True(t, names["jobs_duration_milliseconds"], "families: %v", names)
	assert.True(t, names["listings_processed_total"], "families: %v", names)
	for name := range names {
		assert.NotContains(t, name, ".")
	}
}

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	var obs Observability
	obs.RecordJob(context.Background(), "summarize-requests", StatusCompleted, time.Millisecond)
	obs.RecordListings(context.Background(), "summarize-requests", 1)
	obs.Shutdown()
}
