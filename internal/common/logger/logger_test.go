package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestZapWrapper_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"taskType": "derive-vibe-tags"}).
		WithError(errors.New("boom"))

	log.Warn("listing lookup failed", map[string]interface{}{
		"listingId": "abc",
		"cause":     errors.New("timeout"),
	})

	entries := logs.All()
	assert.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "derive-vibe-tags", ctx["taskType"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "abc", ctx["listingId"])
	assert.Equal(t, "timeout", ctx["cause"])
}

func TestBuild_UnknownOutputFallsBackToNop(t *testing.T) {
	l := Build(Options{Level: "info", Format: "json", Output: "/nonexistent-dir/rooms.log"})
	assert.NotNil(t, l)
}
