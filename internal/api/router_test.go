package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nerdwave-nick/pokedex/internal/api/health"
	"github.com/stretchr/testify/assert"
)

func TestRouterServesControllersWithCors(t *testing.T) {
	mux := http.NewServeMux()
	router := MakeRouter(mux, []Controller{health.MakeController()}, []string{"https://example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterServesOpenAPI(t *testing.T) {
	mux := http.NewServeMux()
	router := MakeRouter(mux, []Controller{health.MakeController()}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/healthz")
}
