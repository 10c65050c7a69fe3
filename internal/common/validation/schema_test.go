package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rooms-workers/internal/common/errors"
	"rooms-workers/pkg/registry"
)

func createTestRegistry() *registry.ActivityRegistry {
	return &registry.ActivityRegistry{
		Version: "1.0.0",
		Activities: []registry.Activity{
			{
				ID:          "search-listings",
				DisplayName: "Search Listings",
				Category:    "listings",
				TaskType:    "search-listings",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"city"},
					"properties": map[string]interface{}{
						"city":    map[string]interface{}{"type": "string", "minLength": 1},
						"maxRent": map[string]interface{}{"type": "number", "minimum": 0},
					},
				},
			},
			{
				ID:          "no-schema",
				DisplayName: "No Schema",
				Category:    "misc",
				TaskType:    "no-schema",
			},
		},
	}
}

func TestNewValidator(t *testing.T) {
	v, err := NewValidator(createTestRegistry())
	require.NoError(t, err)
	assert.True(t, v.HasSchema("search-listings"))
	assert.False(t, v.HasSchema("no-schema"))
}

func TestNewValidator_BadSchema(t *testing.T) {
	reg := createTestRegistry()
	reg.Activities[0].InputSchema = map[string]interface{}{"type": 42}

	_, err := NewValidator(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search-listings")
}

func TestValidate(t *testing.T) {
	v, err := NewValidator(createTestRegistry())
	require.NoError(t, err)

	tests := []struct {
		name      string
		variables string
		valid     bool
		field     string
	}{
		{"valid", `{"city":"Pune","maxRent":12000}`, true, ""},
		{"missing city", `{"maxRent":12000}`, false, ""},
		{"empty city", `{"city":""}`, false, "city"},
		{"negative rent", `{"city":"Pune","maxRent":-1}`, false, "maxRent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.Validate("search-listings", tt.variables)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.GetErrorMessages())
			}
			if tt.field != "" {
				assert.True(t, result.HasErrors(tt.field), result.Error())
			}
		})
	}
}

func TestValidate_UnknownTaskTypeAcceptsAnything(t *testing.T) {
	v, err := NewValidator(createTestRegistry())
	require.NoError(t, err)

	result, err := v.Validate("no-schema", `{"anything":true}`)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidate_MalformedJSON(t *testing.T) {
	v, err := NewValidator(createTestRegistry())
	require.NoError(t, err)

	_, err = v.Validate("search-listings", `{"city":`)
	assert.Error(t, err)
}

func TestDecodeInput(t *testing.T) {
	v, err := NewValidator(createTestRegistry())
	require.NoError(t, err)

	var out struct {
		City    string   `json:"city"`
		MaxRent *float64 `json:"maxRent"`
	}

	require.NoError(t, v.DecodeInput("search-listings", `{"city":"Pune","maxRent":9000}`, &out))
	assert.Equal(t, "Pune", out.City)
	require.NotNil(t, out.MaxRent)
	assert.Equal(t, 9000.0, *out.MaxRent)

	err = v.DecodeInput("search-listings", `{"maxRent":9000}`, &out)
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeInputValidationFailed, stdErr.Code)

	err = v.DecodeInput("search-listings", `not json`, &out)
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeParseError, stdErr.Code)
}

func TestDecodeInput_NilValidatorOnlyDecodes(t *testing.T) {
	var v *Validator
	var out map[string]interface{}
	require.NoError(t, v.DecodeInput("search-listings", `{"x":1}`, &out))
	assert.Equal(t, 1.0, out["x"])
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(18.52, 73.85))
	assert.True(t, ValidateCoordinates(-90, 180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(0, -180.5))
}

func TestValidator_ActivityRegistryFile(t *testing.T) {
	reg, err := registry.LoadRegistry("../../../configs/activity-registry.json")
	require.NoError(t, err)

	v, err := NewValidator(reg)
	require.NoError(t, err)

	result, err := v.Validate("rank-listings-by-distance", `{"referencePoint":{"latitude":18.5,"longitude":73.8},"listings":[{"id":"a"}]}`)
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Error())

	result, err = v.Validate("rank-listings-by-distance", `{"referencePoint":{"latitude":18.5,"longitude":73.8}}`)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	result, err = v.Validate("summarize-requests", `{"userId":"u1","requests":[{"id":"r1","listingId":"l1","seekerId":"u2","status":"maybe"}]}`)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	result, err = v.Validate("derive-vibe-tags", `{"listing":{"id":"a","rent":9000,"mikoTags":"calm_vibes"}}`)
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Error())
}
