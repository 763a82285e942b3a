package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLocalOrigin(t *testing.T) {
	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"http://192.168.1.1:7777", true},
		{"http://10.0.0.1", true},
		{"http://172.31.255.255:443", true},
		{"http://127.0.0.1:3000", true},
		{"http://169.254.1.1", true},
		{"http://[::1]:7777", true},
		{"http://mynas.local:7777", true},
		{"http://mediaserver:7777", true},

		{"https://example.com", false},
		{"http://image.tmdb.org.evil.com", false},
		{"http://8.8.8.8", false},
		{"http://172.32.0.1", false},
		{"", false},
		{"not-a-url", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, IsLocalOrigin(tt.origin), tt.origin)
	}
}

func TestOriginPolicyExplicit(t *testing.T) {
	p := NewOriginPolicy([]string{" https://Reely.example.com/ ", ""})

	assert.True(t, p.Allowed("https://reely.example.com"))
	assert.False(t, p.Allowed("http://reely.example.com"))
	assert.False(t, p.Allowed("https://reely.example.com:8443"))
	assert.True(t, p.Allowed("http://localhost:5173"))

	var nilPolicy *OriginPolicy
	assert.True(t, nilPolicy.Allowed("http://localhost"))
	assert.False(t, nilPolicy.Allowed("https://reely.example.com"))
}

func TestRouterCORS(t *testing.T) {
	r := NewRouter([]string{"https://reely.example.com"})
	r.HandleFunc("/api/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Origin", "https://reely.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://reely.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Client-ID")

	req = httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
	req.Header.Set("Origin", "https://evil.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
