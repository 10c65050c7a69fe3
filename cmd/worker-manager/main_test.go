package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestReadyHandler(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("redis ping failed: connection refused") }

	tests := []struct {
		name   string
		checks map[string]func(context.Context) error
		status int
	}{
		{"no checks", map[string]func(context.Context) error{}, http.StatusOK},
		{"all healthy", map[string]func(context.Context) error{"zeebe": healthy, "postgres": healthy}, http.StatusOK},
		{"one down", map[string]func(context.Context) error{"zeebe": healthy, "redis": down}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			readyHandler(tt.checks)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.status != http.StatusOK {
				assert.Contains(t, body["checks"], "redis")
			}
		})
	}
}

func TestRetryWithBackoff(t *testing.T) {
	log := zaptest.NewLogger(t)
	attempts := 0

	err := retryWithBackoff(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "test operation")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	err = retryWithBackoff(func() error { return errors.New("never") }, 2, time.Millisecond, log, "test operation")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test operation failed after 2 attempts")
}

type fakeConn struct {
	healthy bool
	closed  bool
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestDialWithRetry_ClosesFailedClients(t *testing.T) {
	log := zaptest.NewLogger(t)
	var opened []*fakeConn

	conn, err := dialWithRetry(
		func() (*fakeConn, error) {
			c := &fakeConn{healthy: len(opened) == 2}
			opened = append(opened, c)
			return c, nil
		},
		func(c *fakeConn) error {
			if !c.healthy {
				return errors.New("connection refused")
			}
			return nil
		},
		5, time.Millisecond, log, "test dial")
	require.NoError(t, err)
	require.Len(t, opened, 3)
	assert.Same(t, opened[2], conn)
	assert.True(t, opened[0].closed)
	assert.True(t, opened[1].closed)
	assert.False(t, conn.closed)
}

func TestDialWithRetry_OpenErrorAndExhaustion(t *testing.T) {
	log := zaptest.NewLogger(t)
	var opened []*fakeConn

	conn, err := dialWithRetry(
		func() (*fakeConn, error) {
			if len(opened) == 0 {
				opened = append(opened, nil)
				return nil, errors.New("bad dsn")
			}
			c := &fakeConn{}
			opened = append(opened, c)
			return c, nil
		},
		func(*fakeConn) error { return errors.New("down") },
		3, time.Millisecond, log, "test dial")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test dial failed after 3 attempts")
	assert.Nil(t, conn)
	require.Len(t, opened, 3)
	assert.True(t, opened[1].closed)
	assert.True(t, opened[2].closed)
}
