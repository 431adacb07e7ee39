package health

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/nerdwave-nick/pokedex/internal/api/common"
	"github.com/stretchr/testify/assert"
)

func TestHealthz(t *testing.T) {
	_, api := humatest.New(t)
	MakeController().RegisterRoutes(common.RouteCreationContext{API: api})

	resp := api.Get("/api/healthz")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}
