package pokedex

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	// allPokemonLimit is large enough to list every pokemon in one request.
	allPokemonLimit = 100000
	maxSuggestions  = 3
	maxEditDistance = 3
)

type suggestion struct {
	name     string
	distance int
}

// Suggest returns up to three known names close to query, nearest first.
// Failures only cost the suggestions, so they are logged and swallowed.
func (s *Service) Suggest(ctx context.Context, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	list, err := s.api.Pokemons(ctx, allPokemonLimit, 0)
	if err != nil {
		slog.Warn("loading pokemon names for suggestions", slog.Any("error", err))
		return nil
	}
	candidates := make([]suggestion, 0, maxSuggestions)
	for _, r := range list.Results {
		d := levenshtein.ComputeDistance(query, r.Name)
		if d <= maxEditDistance {
			candidates = append(candidates, suggestion{name: r.Name, distance: d})
		}
	}
	slices.SortFunc(candidates, func(a, b suggestion) int {
		if a.distance != b.distance {
			return a.distance - b.distance
		}
		return strings.Compare(a.name, b.name)
	})
	names := make([]string, 0, maxSuggestions)
	for _, c := range candidates {
		if len(names) == maxSuggestions {
			break
		}
		names = append(names, c.name)
	}
	return names
}
