package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/nerdwave-nick/pokedex/internal/api/common"
	"github.com/rs/cors"
)

type Controller interface {
	RegisterRoutes(rctx common.RouteCreationContext)
}

// MakeRouter registers every controller on mux through huma and wraps the result in cors handling.
func MakeRouter(mux *http.ServeMux, controllers []Controller, allowedOrigins []string) http.Handler {
	config := huma.DefaultConfig("pokedex", "1.0.0")
	config.Info.Description = "Lists, searches and details Pokémon from pokeapi.co"
	humaAPI := humago.New(mux, config)

	rctx := common.RouteCreationContext{API: humaAPI}
	for _, c := range controllers {
		c.RegisterRoutes(rctx)
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	}).Handler(mux)
}
