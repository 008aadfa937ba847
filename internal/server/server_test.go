package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *server.Server {
	t.Helper()
	mediaDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "hello.txt"), []byte("hi"), 0o644))

	cfg := &config.Config{
		Env:         config.Test,
		BaseURL:     "http://localhost:8000",
		JWTSecret:   "test-secret",
		PageSize:    6,
		MediaDir:    mediaDir,
		MediaURL:    "/media/",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	db := testhelpers.SetupSQLite(t)
	return server.New(cfg, db, nil, testhelpers.NewMemoryImageStore())
}

func TestHealth(t *testing.T) {
	srv := newServer(t)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body, "redis")
}

func TestMetricsExposeRequestCounter(t *testing.T) {
	srv := newServer(t)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "foodgram_http_requests_total")
}

func TestServesLocalMedia(t *testing.T) {
	srv := newServer(t)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/hello.txt", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi", w.Body.String())
}
