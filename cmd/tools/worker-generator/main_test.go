package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rooms-workers/pkg/registry"
)

func loadShippedRegistry(t *testing.T) *registry.ActivityRegistry {
	t.Helper()
	reg, err := registry.LoadRegistry("../../../configs/activity-registry.json")
	require.NoError(t, err)
	return reg
}

func TestSchemaFields(t *testing.T) {
	fields := schemaFields(map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"listingId"},
		"properties": map[string]interface{}{
			"listingId":  map[string]interface{}{"type": "string", "description": "Listing to tag"},
			"maxLabels":  map[string]interface{}{"type": "integer"},
			"seekerTags": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"radiusKm":   map[string]interface{}{"type": "number"},
		},
	})

	require.Len(t, fields, 4)
	assert.Equal(t, Field{Name: "ListingID", GoType: "string", JSONName: "listingId", Required: true, Comment: "Listing to tag"}, fields[0])
	assert.Equal(t, "int", fields[1].GoType)
	assert.Equal(t, "float64", fields[2].GoType)
	assert.Equal(t, "[]string", fields[3].GoType)
	assert.False(t, fields[3].Required)
}

func TestExportedName(t *testing.T) {
	assert.Equal(t, "UserID", exportedName("userId"))
	assert.Equal(t, "ListingIDs", exportedName("listingIds"))
	assert.Equal(t, "City", exportedName("city"))
	assert.Equal(t, "", exportedName(""))
}

func TestGenerate_ProducesParseableGo(t *testing.T) {
	reg := loadShippedRegistry(t)
	activity, ok := findActivity(reg, "rank-listings-by-distance")
	require.True(t, ok)

	out := t.TempDir()
	dir, files, err := generate(activity, out)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"config.go", "handler.go", "handler_test.go", "models.go"}, files)

	fset := token.NewFileSet()
	for _, f := range files {
		src, err := os.ReadFile(filepath.Join(dir, f))
		require.NoError(t, err)
		_, err = parser.ParseFile(fset, f, src, parser.AllErrors)
		assert.NoError(t, err, f)
	}

	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "package ranklistingsbydistance")
	assert.Contains(t, string(models), `json:"referencePoint"`)
}

func TestGenerate_DoesNotOverwrite(t *testing.T) {
	reg := loadShippedRegistry(t)
	activity, ok := findActivity(reg, "summarize-requests")
	require.True(t, ok)

	out := t.TempDir()
	_, _, err := generate(activity, out)
	require.NoError(t, err)

	_, _, err = generate(activity, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
