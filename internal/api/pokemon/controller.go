package pokemon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nerdwave-nick/pokedex/internal/api/common"
	"github.com/nerdwave-nick/pokedex/internal/pokedex"
	"github.com/nerdwave-nick/pokedex/internal/table"
)

// Service is what the controller needs from the pokedex service.
type Service interface {
	Browse(ctx context.Context, query string, page int) (*pokedex.Result, error)
	Detail(ctx context.Context, name string, triggerPage int) (*pokedex.Detail, error)
	Triggers(ctx context.Context, page int) ([]pokedex.Trigger, error)
}

type ListInput struct {
	Page  int    `query:"page" minimum:"0" maximum:"10000" default:"0" doc:"Zero based listing page, ignored when searching"`
	Query string `query:"query" maxLength:"100" doc:"Name to search for"`
	Sort  string `query:"sort" enum:"name,types,base_experience" doc:"Column to sort the loaded page by"`
	Dir   string `query:"dir" enum:"asc,desc" doc:"Sort direction"`
}

type ListOutput struct {
	Body *pokedex.Result
}

type DetailInput struct {
	Name     string `path:"name" maxLength:"100" doc:"Name or id of the pokemon"`
	Triggers int    `query:"triggers" minimum:"0" maximum:"10000" default:"0" doc:"Zero based evolution trigger page"`
}

type DetailOutput struct {
	Body *pokedex.Detail
}

type TriggersInput struct {
	Page int `query:"page" minimum:"0" maximum:"10000" default:"0" doc:"Zero based evolution trigger page"`
}

type TriggersBody struct {
	Page     int               `json:"page"`
	Triggers []pokedex.Trigger `json:"triggers"`
}

type TriggersOutput struct {
	Body TriggersBody
}

type Controller struct {
	service Service
}

func (c *Controller) RegisterRoutes(rctx common.RouteCreationContext) {
	defaultTags := []string{"Pokemon"}
	common.AddHumaRoute(rctx, c.ListPokemon, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/pokemon",
		Tags:        defaultTags,
		Description: "Lists a page of pokemon, or searches one by name when query is set.",
	})
	common.AddHumaRoute(rctx, c.GetPokemon, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/pokemon/{name}",
		Tags:        defaultTags,
		Description: "Returns a pokemon together with one page of evolution triggers.",
	})
	common.AddHumaRoute(rctx, c.ListEvolutionTriggers, huma.Operation{
		Method: http.MethodGet,
		Path:   "/api/evolution-triggers",
		Tags:   defaultTags,
	})
}

func (c *Controller) ListPokemon(ctx context.Context, in *ListInput) (*ListOutput, error) {
	result, err := c.service.Browse(ctx, in.Query, in.Page)
	if err != nil {
		slog.Error("browsing pokemon", slog.String("query", in.Query), slog.Int("page", in.Page), slog.Any("error", err))
		return nil, huma.Error502BadGateway("pokeapi request failed")
	}
	if result.NotFound {
		details := make([]error, 0, len(result.Suggestions))
		for _, s := range result.Suggestions {
			details = append(details, &huma.ErrorDetail{Message: "did you mean", Location: "query.query", Value: s})
		}
		return nil, huma.Error404NotFound(pokedex.NotFoundMessage, details...)
	}
	result.Pokemon = table.Sort(result.Pokemon, table.ParseSorting(in.Sort, in.Dir))
	return &ListOutput{Body: result}, nil
}

func (c *Controller) GetPokemon(ctx context.Context, in *DetailInput) (*DetailOutput, error) {
	detail, err := c.service.Detail(ctx, in.Name, in.Triggers)
	if errors.Is(err, pokedex.ErrNotFound) {
		return nil, huma.Error404NotFound(pokedex.NotFoundMessage)
	}
	if err != nil {
		slog.Error("loading pokemon detail", slog.String("name", in.Name), slog.Any("error", err))
		return nil, huma.Error502BadGateway("pokeapi request failed")
	}
	return &DetailOutput{Body: detail}, nil
}

func (c *Controller) ListEvolutionTriggers(ctx context.Context, in *TriggersInput) (*TriggersOutput, error) {
	triggers, err := c.service.Triggers(ctx, in.Page)
	if err != nil {
		slog.Error("listing evolution triggers", slog.Int("page", in.Page), slog.Any("error", err))
		return nil, huma.Error502BadGateway("pokeapi request failed")
	}
	return &TriggersOutput{Body: TriggersBody{Page: in.Page, Triggers: triggers}}, nil
}

func MakeController(service Service) *Controller {
	return &Controller{service: service}
}
