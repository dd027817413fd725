package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"hi"}`))
	}))
	t.Cleanup(srv.Close)

	var out struct {
		Message string `json:"message"`
	}
	c := NewClient(srv.URL+"/", "sess_abc")
	require.NoError(t, c.Post(context.Background(), "/x", map[string]int{"row": 1}, &out))

	assert.Equal(t, "hi", out.Message)
	assert.Equal(t, "Bearer sess_abc", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, userAgent, got.Get("User-Agent"))
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":{"code":"LOBBY_FULL","message":"Both seats are taken"}}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down\n"))
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")

	err := c.Get(context.Background(), "/api", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "LOBBY_FULL", apiErr.Code)

	err = c.Get(context.Background(), "/proxy", nil)
	assert.EqualError(t, err, "HTTP 502: upstream down")
	assert.False(t, errors.As(err, &apiErr))
}
