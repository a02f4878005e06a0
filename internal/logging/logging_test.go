package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogData_FieldsAndError(t *testing.T) {
	buf := &bytes.Buffer{}
	logData := NewLogData(NewLogger(buf))

	stop := logData.AddTiming("queryMs")
	stop()
	logData.AddData("userID", "abc")
	logData.AddError(errors.New("boom"))

	logData.Log().Info("done")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["userID"])
	assert.Equal(t, "boom", entries[0]["error"])
	assert.Equal(t, "info", entries[0]["loglevel"])
	assert.Contains(t, entries[0], "queryMs")
}

func TestLogData_AddToExistingTiming(t *testing.T) {
	logData := NewLogData(NewLogger(&bytes.Buffer{}))

	logData.AddToExistingTiming("cacheMs")()
	logData.AddToExistingTiming("cacheMs")()

	assert.Contains(t, logData.timeItems, "cacheMs")
}

func TestGetLogData(t *testing.T) {
	assert.Nil(t, GetLogData(context.Background()))

	logData := NewLogData(NewLogger(&bytes.Buffer{}))
	ctx := WithLogData(context.Background(), logData)
	assert.Same(t, logData, GetLogData(ctx))
}

func TestLoggingWrapper(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf)

	var seen *LogData
	handler := LoggingWrapper("Status", logger, func(w http.ResponseWriter, req *http.Request, logData *LogData) error {
		seen = GetLogData(req.Context())
		w.WriteHeader(http.StatusOK)
		return nil
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.NotNil(t, seen)
	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "Handler.Status.Start", entries[0]["msg"])
	assert.Equal(t, "Handler.Status.Complete", entries[1]["msg"])
}

type pingOutput struct {
	Body struct {
		HasLogData bool `json:"hasLogData"`
	}
}

func TestMiddleware(t *testing.T) {
	buf := &bytes.Buffer{}
	_, api := humatest.New(t)
	api.UseMiddleware(Middleware(NewLogger(buf)))

	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
	}, func(ctx context.Context, _ *struct{}) (*pingOutput, error) {
		out := &pingOutput{}
		out.Body.HasLogData = GetLogData(ctx) != nil
		return out, nil
	})
	huma.Register(api, huma.Operation{
		OperationID: "explode",
		Method:      http.MethodGet,
		Path:        "/explode",
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		GetLogData(ctx).AddError(errors.New("store down"))
		return nil, huma.NewError(http.StatusInternalServerError, "Server error")
	})

	resp := api.Get("/ping")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"hasLogData":true`)

	resp = api.Get("/explode")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)

	entries := decodeLines(t, buf)
	var messages []string
	for _, entry := range entries {
		messages = append(messages, entry["msg"].(string))
	}
	assert.Contains(t, messages, "Handler.ping.Complete")
	assert.Contains(t, messages, "Handler.explode.Error")
}
