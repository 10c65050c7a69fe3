package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestActivity(id string) Activity {
	return Activity{
		ID:          id,
		DisplayName: "Activity " + id,
		Category:    "listings",
		TaskType:    id,
		Retries:     3,
	}
}

func TestLoadRegistry_ShippedFile(t *testing.T) {
	reg, err := LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{
		"derive-vibe-tags",
		"calculate-vibe-match",
		"rank-listings-by-distance",
		"search-listings",
		"summarize-requests",
	} {
		activity, ok := reg.FindByTaskType(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, activity.InputSchema, taskType)
		assert.Contains(t, activity.ErrorCodes, "INPUT_VALIDATION_FAILED", taskType)
	}
}

func TestLoadRegistry_Missing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSaveAndLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	reg := &ActivityRegistry{Version: "2.0.0", Activities: []Activity{createTestActivity("a")}}

	require.NoError(t, SaveRegistry(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", loaded.Version)
	assert.Equal(t, reg.Activities[0].TaskType, loaded.Activities[0].TaskType)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		activities []Activity
		wantErr    string
	}{
		{"valid", []Activity{createTestActivity("a"), createTestActivity("b")}, ""},
		{"empty", nil, "no activities"},
		{"missing category", []Activity{{ID: "a", DisplayName: "A", TaskType: "a"}}, "category"},
		{"duplicate id", []Activity{createTestActivity("a"), createTestActivity("a")}, "duplicate activity id"},
		{"duplicate task type", []Activity{
			createTestActivity("a"),
			func() Activity { a := createTestActivity("b"); a.TaskType = "a"; return a }(),
		}, "duplicate task type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ActivityRegistry{Activities: tt.activities}).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindByTaskType_Missing(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{createTestActivity("a")}}
	_, ok := reg.FindByTaskType("b")
	assert.False(t, ok)
}
