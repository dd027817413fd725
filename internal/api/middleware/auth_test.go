package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer sess_abc", "sess_abc"},
		{"lower case scheme", "bearer sess_abc", "sess_abc"},
		{"padded", "Bearer   sess_abc ", "sess_abc"},
		{"basic", "Basic dXNlcjpwYXNz", ""},
		{"no token", "Bearer", ""},
		{"missing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, extractToken(r))
		})
	}
}
