package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	patterns := []string{"https://realty.example.com", "https://*.preview.example.com"}
	for origin, want := range map[string]bool{
		"https://realty.example.com":       true,
		"https://pr-12.preview.example.com": true,
		"http://realty.example.com":        false,
		"https://evil.com":                 false,
	} {
		assert.Equal(t, want, OriginAllowed(patterns, origin), origin)
	}
	assert.True(t, OriginAllowed([]string{"*"}, "https://anything.test"))
	assert.False(t, OriginAllowed(nil, "https://anything.test"))
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://realty.example.com"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/listings", nil)
	req.Header.Set("Origin", "https://realty.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://realty.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/api/listings", nil)
	req.Header.Set("Origin", "https://evil.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
