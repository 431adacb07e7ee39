package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nerdwave-nick/pokedex/internal/api/common"
)

type HealthOutput struct {
	Body struct {
		Status string `json:"status" example:"ok" doc:"Always ok while the server is serving requests"`
	}
}

type Controller struct{}

func (c *Controller) RegisterRoutes(rctx common.RouteCreationContext) {
	defaultTags := []string{"Health"}
	// basic health/liveness check routes
	common.AddHumaRoute(rctx, c.Healthz, huma.Operation{
		Method: http.MethodGet,
		Path:   "/api/healthz",
		Tags:   defaultTags,
	})
}

// Healthz reports that the server is running and serving requests.
func (c *Controller) Healthz(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	return out, nil
}

func MakeController() *Controller {
	return &Controller{}
}
