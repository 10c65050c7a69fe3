package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rooms-workers/pkg/registry"
)

func copyShippedRegistry(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../../configs/activity-registry.json")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAddActivity_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	err := addActivity(path, registry.Activity{
		ID:          "archive-listing",
		DisplayName: "Archive Listing",
		Category:    "listings",
		TaskType:    "archive-listing",
	})
	require.NoError(t, err)

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, reg.Activities, 1)
	assert.Equal(t, "30s", reg.Activities[0].Timeout)
}

func TestAddActivity_DuplicateTaskType(t *testing.T) {
	path := copyShippedRegistry(t)

	err := addActivity(path, registry.Activity{
		ID:          "derive-vibe-tags-v2",
		DisplayName: "Derive Vibe Tags",
		Category:    "vibe",
		TaskType:    "derive-vibe-tags",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUpdateActivity(t *testing.T) {
	path := copyShippedRegistry(t)

	require.NoError(t, updateActivity(path, "search-listings", "retries", "5"))
	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	activity, ok := reg.FindByTaskType("search-listings")
	require.True(t, ok)
	assert.Equal(t, 5, activity.Retries)

	assert.Error(t, updateActivity(path, "search-listings", "retries", "many"))
	assert.Error(t, updateActivity(path, "search-listings", "timeout", "soon"))
	assert.Error(t, updateActivity(path, "search-listings", "colour", "blue"))
	assert.Error(t, updateActivity(path, "missing", "status", "implemented"))
}

func TestValidateRegistry(t *testing.T) {
	assert.NoError(t, validateRegistry(copyShippedRegistry(t)))

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"activities":[]}`), 0o644))
	assert.Error(t, validateRegistry(broken))
}

func TestCheckInput(t *testing.T) {
	path := copyShippedRegistry(t)

	result, err := checkInput(path, "search-listings", `{"city":"Pune","maxRent":15000}`)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = checkInput(path, "search-listings", `{"maxRent":-5}`)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	_, err = checkInput(path, "unknown-task", `{}`)
	assert.Error(t, err)
}

func TestRootCmd_Validate(t *testing.T) {
	path := copyShippedRegistry(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", "--path", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Registry validation passed.")
}
