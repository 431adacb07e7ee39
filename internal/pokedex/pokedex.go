// Package pokedex turns pokeapi responses into the rows, search results and
// detail views shown by the web front-end, the json api and the cli.
package pokedex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nerdwave-nick/pokedex/internal/pokeapi"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"
)

const (
	// PageSize is the number of pokemon shown per listing page.
	PageSize = 20
	// TriggerPageSize is the number of evolution triggers shown per modal page.
	TriggerPageSize = 5
	// NotFoundMessage is shown when a search matches nothing.
	NotFoundMessage = "Pokémon not found."
	// MaxPage bounds listing and trigger page indexes so offsets stay far from overflowing.
	MaxPage = 10000
)

// ClampPage maps any page index into [0, MaxPage].
func ClampPage(page int) int {
	return min(max(page, 0), MaxPage)
}

// ErrNotFound is returned when a looked up pokemon does not exist.
var ErrNotFound = pokeapi.ErrNotFound

// Upstream is the subset of the pokeapi client the service needs.
type Upstream interface {
	Pokemons(ctx context.Context, limit, offset int) (*pokeapi.NamedAPIResourceList, error)
	Pokemon(ctx context.Context, nameOrID string) (*pokeapi.Pokemon, error)
	EvolutionTriggers(ctx context.Context, limit, offset int) (*pokeapi.NamedAPIResourceList, error)
}

// Summary is one row of the pokemon table.
type Summary struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	Sprite         string   `json:"sprite,omitempty"`
	Types          []string `json:"types,omitempty"`
	Height         int      `json:"height,omitempty"`
	Weight         int      `json:"weight,omitempty"`
	BaseExperience int      `json:"base_experience,omitempty"`
}

// Trigger is one evolution trigger shown in the detail modal.
type Trigger struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Result is what a browse request resolves to: either a listing page or a search.
type Result struct {
	Query       string    `json:"query,omitempty"`
	Page        int       `json:"page"`
	Pokemon     []Summary `json:"pokemon"`
	NotFound    bool      `json:"not_found,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

// IsSearch reports whether the result came from a name search.
func (r *Result) IsSearch() bool {
	return r.Query != ""
}

type Service struct {
	api         Upstream
	concurrency int
	baseURL     string
}

// NewService creates a service fanning out at most concurrency detail requests at a time.
// baseURL is used to build the resource url of searched pokemon.
func NewService(api Upstream, concurrency int, baseURL string) *Service {
	if concurrency <= 0 {
		concurrency = 1
	}
	if baseURL == "" {
		baseURL = pokeapi.DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Service{api: api, concurrency: concurrency, baseURL: baseURL}
}

// Browse resolves a page request. A non-empty query searches by name and ignores page.
func (s *Service) Browse(ctx context.Context, query string, page int) (*Result, error) {
	page = ClampPage(page)
	query = strings.TrimSpace(query)
	if query == "" {
		rows, err := s.Listing(ctx, page)
		if err != nil {
			return nil, err
		}
		return &Result{Page: page, Pokemon: rows}, nil
	}

	row, err := s.Search(ctx, query)
	if errors.Is(err, ErrNotFound) {
		return &Result{
			Query:       query,
			Page:        page,
			Pokemon:     []Summary{},
			NotFound:    true,
			Suggestions: s.Suggest(ctx, query),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Result{Query: query, Page: page, Pokemon: []Summary{*row}}, nil
}

// Listing fetches one page of summaries and then the full record of every entry on it.
// The detail requests run concurrently and the first failure fails the whole page.
func (s *Service) Listing(ctx context.Context, page int) ([]Summary, error) {
	page = ClampPage(page)
	offset := page * PageSize
	list, err := s.api.Pokemons(ctx, PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("listing page %d: %w", page, err)
	}

	rows := make([]Summary, len(list.Results))
	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(s.concurrency)
	for i, entry := range list.Results {
		p.Go(func(ctx context.Context) error {
			detail, err := s.api.Pokemon(ctx, entry.Name)
			if err != nil {
				return fmt.Errorf("fetching %q: %w", entry.Name, err)
			}
			row := summarize(detail)
			row.ID = offset + i + 1
			row.URL = entry.URL
			rows[i] = row
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Search looks up exactly one pokemon by name.
func (s *Service) Search(ctx context.Context, name string) (*Summary, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	detail, err := s.api.Pokemon(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", name, err)
	}
	if detail.Name == "" {
		return nil, fmt.Errorf("searching %q: nameless record: %w", name, ErrNotFound)
	}
	row := summarize(detail)
	row.URL = s.baseURL + "pokemon/" + detail.Name
	return &row, nil
}

// Triggers fetches one page of evolution triggers.
func (s *Service) Triggers(ctx context.Context, page int) ([]Trigger, error) {
	page = ClampPage(page)
	list, err := s.api.EvolutionTriggers(ctx, TriggerPageSize, page*TriggerPageSize)
	if err != nil {
		return nil, fmt.Errorf("listing evolution triggers page %d: %w", page, err)
	}
	triggers := make([]Trigger, 0, len(list.Results))
	for _, r := range list.Results {
		triggers = append(triggers, Trigger{ID: pokeapi.ResourceID(r), Name: r.Name, URL: r.URL})
	}
	return triggers, nil
}

// Detail fetches a pokemon and a page of evolution triggers side by side.
// The two are unrelated; the trigger page only moves with triggerPage.
func (s *Service) Detail(ctx context.Context, name string, triggerPage int) (*Detail, error) {
	triggerPage = ClampPage(triggerPage)
	var (
		pokemon  *pokeapi.Pokemon
		triggers []Trigger
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pokemon, err = s.api.Pokemon(gctx, name)
		if err != nil {
			return fmt.Errorf("fetching %q: %w", name, err)
		}
		if pokemon.Name == "" {
			return fmt.Errorf("fetching %q: nameless record: %w", name, ErrNotFound)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		triggers, err = s.Triggers(gctx, triggerPage)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newDetail(pokemon, triggers, triggerPage, s.baseURL), nil
}

func summarize(p *pokeapi.Pokemon) Summary {
	types := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		types = append(types, t.Type.Name)
	}
	return Summary{
		ID:             p.ID,
		Name:           p.Name,
		Sprite:         p.Sprites.FrontDefault,
		Types:          types,
		Height:         p.Height,
		Weight:         p.Weight,
		BaseExperience: p.BaseExperience,
	}
}
