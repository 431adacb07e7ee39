package pokeapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

func listEndpoint(resource string, limit, offset int) string {
	params := url.Values{}
	params.Set(limit_param, fmt.Sprint(limit))
	params.Set(offset_param, fmt.Sprint(offset))
	return resource + "?" + params.Encode()
}

// Pokemons returns one page of the pokemon listing.
func (c *Client) Pokemons(ctx context.Context, limit, offset int) (*NamedAPIResourceList, error) {
	return do[NamedAPIResourceList](ctx, c, listEndpoint("pokemon", limit, offset))
}

// Pokemon looks up a single pokemon by name or id. Names are matched case-insensitively.
func (c *Client) Pokemon(ctx context.Context, nameOrID string) (*Pokemon, error) {
	nameOrID = strings.ToLower(strings.TrimSpace(nameOrID))
	switch nameOrID {
	case "":
		return nil, fmt.Errorf("empty pokemon name: %w", ErrNotFound)
	case ".", "..":
		// dot segments resolve to the listing instead of a record
		return nil, fmt.Errorf("pokemon name %q: %w", nameOrID, ErrNotFound)
	}
	return do[Pokemon](ctx, c, "pokemon/"+url.PathEscape(nameOrID))
}

// EvolutionTriggers returns one page of the evolution trigger listing.
func (c *Client) EvolutionTriggers(ctx context.Context, limit, offset int) (*NamedAPIResourceList, error) {
	return do[NamedAPIResourceList](ctx, c, listEndpoint("evolution-trigger", limit, offset))
}
