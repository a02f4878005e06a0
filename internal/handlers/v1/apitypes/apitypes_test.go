package apitypes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/logging"
)

func TestAmount_JSON(t *testing.T) {
	encoded, err := json.Marshal(map[string]Amount{"a": NewAmount(decimal.RequireFromString("1234.50"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1234.5}`, string(encoded))

	var decoded struct {
		Value Amount `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"value":0.1}`), &decoded))
	assert.Equal(t, "0.1", decoded.Value.Decimal().String())

	assert.Error(t, json.Unmarshal([]byte(`{"value":"abc"}`), &decoded))
}

func TestAmount_Schema(t *testing.T) {
	schema := Amount{}.Schema(nil)
	assert.Equal(t, huma.TypeNumber, schema.Type)
}

func TestServerError(t *testing.T) {
	logData := logging.NewLogData(logging.NewLogger(io.Discard))
	ctx := logging.WithLogData(context.Background(), logData)

	err := ServerError(ctx, errors.New("pq: connection refused"))

	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.GetStatus())
	assert.NotContains(t, err.Error(), "connection refused")
	assert.EqualError(t, logData.Err(), "pq: connection refused")
}

func TestIdentity(t *testing.T) {
	_, err := Identity(context.Background())
	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.GetStatus())

	want := auth.Identity{UserID: uuid.Must(uuid.NewV4()), Role: auth.RoleUser}
	got, err := Identity(auth.WithIdentity(context.Background(), want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
