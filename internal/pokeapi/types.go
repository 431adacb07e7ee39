package pokeapi

import (
	"strconv"
	"strings"

	papi "github.com/nerdwave-nick/pokeapi-go"
)

// Wire types come from pokeapi-go so responses decode, cache and re-decode as the library's
// own structures. Only the fetch path lives in this package.
type (
	Cache                = papi.Cache
	NamedAPIResource     = papi.NamedAPIResource
	NamedAPIResourceList = papi.NamedAPIResourceList
	Pokemon              = papi.Pokemon
	PokemonAbility       = papi.PokemonAbility
	PokemonType          = papi.PokemonType
	PokemonSprites       = papi.PokemonSprites
)

// ResourceID is the numeric identifier at the end of a resource url, or 0 if there is none.
func ResourceID(r NamedAPIResource) int {
	segment := strings.TrimRight(r.URL, "/")
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	id, err := strconv.Atoi(segment)
	if err != nil {
		return 0
	}
	return id
}
