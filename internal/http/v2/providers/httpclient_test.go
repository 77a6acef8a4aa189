package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGetClient_SendsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/debug_token", r.URL.Path)
		assert.Equal(t, "app", r.URL.Query().Get("access_token"))
		assert.Equal(t, "client", r.URL.Query().Get("input_token"))
		_, _ = w.Write([]byte(`{"data":{"user_id":"42"}}`))
	}))
	defer srv.Close()

	c := NewHTTPGetClient(time.Second).WithHTTPClient(srv.Client())
	body, err := c.Get(context.Background(), srv.URL+"/debug_token", map[string]string{
		"access_token": "app",
		"input_token":  "client",
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"user_id":"42"}}`, string(body))
}

func TestHTTPGetClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPGetClient(time.Second).Get(context.Background(), srv.URL, nil)

	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestHTTPGetClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewHTTPGetClient(time.Second).Get(context.Background(), srv.URL, nil)

	require.Error(t, err)
}
