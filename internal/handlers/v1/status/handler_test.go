package status

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/finance-tracker/internal/logging"
)

type fakePinger struct {
	err   error
	calls int
}

func (f *fakePinger) Ping(context.Context) error {
	f.calls++
	return f.err
}

func createTestLogData() *logging.LogData {
	return logging.NewLogData(logging.NewLogger(io.Discard))
}

func TestHandler_GoodMethod(t *testing.T) {
	store := &fakePinger{}
	statusHandler := NewHandler(store)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)

	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.NoError(t, err)

	res := w.Result()
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, 1, store.calls)
}

func TestHandler_BadMethod(t *testing.T) {
	store := &fakePinger{}
	statusHandler := NewHandler(store)
	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.Error(t, err)

	res := w.Result()
	assert.Equal(t, 400, res.StatusCode)
	assert.Zero(t, store.calls)
}

func TestHandler_DatabaseDown(t *testing.T) {
	statusHandler := NewHandler(&fakePinger{err: errors.New("dial tcp: connection refused")})
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode)
}

func TestLoggingWrapper_Status(t *testing.T) {
	statusHandler := NewHandler(&fakePinger{})
	wrapped := logging.LoggingWrapper("Status", logging.NewLogger(io.Discard), statusHandler.Handler)

	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
