package dql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/query:execute", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Api-Token secret", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req["query"], "fetch bizevents")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"records": [
				{"orderId": "ORD-1", "shippingCostTotal": 12.5, "service.name": "checkout"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", 10*time.Second, nil)
	rows, err := client.Execute(context.Background(), "fetch bizevents | limit 1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ORD-1", rows[0].Str("orderId"))
	assert.Equal(t, 12.5, rows[0].Num("shippingCostTotal"))
	assert.Equal(t, "checkout", rows[0].Str("service.name"))
}

func TestClientExecuteEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"records": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 10*time.Second, nil)
	rows, err := client.Execute(context.Background(), "fetch bizevents | limit 0")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestClientExecuteEngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"code": 400, "message": "syntax error at stage 2"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 10*time.Second, nil)
	_, err := client.Execute(context.Background(), "fetch nonsense")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestClientExecuteNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 10*time.Second, nil)
	_, err := client.Execute(context.Background(), "fetch bizevents")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryFailed)
}
