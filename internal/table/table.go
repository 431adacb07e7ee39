// Package table holds the column set of the pokemon table and its client-side style sorting,
// which only ever reorders the rows already loaded for the current page.
package table

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nerdwave-nick/pokedex/internal/pokedex"
)

type Direction int

const (
	None Direction = iota
	Asc
	Desc
)

func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return ""
	}
}

func ParseDirection(s string) Direction {
	switch strings.ToLower(s) {
	case "asc":
		return Asc
	case "desc":
		return Desc
	default:
		return None
	}
}

type Column struct {
	Key      string
	Title    string
	Sortable bool
	compare  func(a, b pokedex.Summary) int
}

var Columns = []Column{
	{Key: "name", Title: "Poke Name", Sortable: true, compare: func(a, b pokedex.Summary) int {
		return strings.Compare(a.Name, b.Name)
	}},
	{Key: "sprite", Title: "Appearance"},
	{Key: "types", Title: "Poke Type", Sortable: true, compare: func(a, b pokedex.Summary) int {
		return slices.Compare(a.Types, b.Types)
	}},
	{Key: "base_experience", Title: "Base Experience", Sortable: true, compare: func(a, b pokedex.Summary) int {
		return cmp.Compare(a.BaseExperience, b.BaseExperience)
	}},
}

func column(key string) (Column, bool) {
	for _, c := range Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Sorting is the sort state of the table. The zero value is unsorted.
type Sorting struct {
	Column string
	Dir    Direction
}

// ParseSorting reads a sort state from its query form. Anything unknown yields the unsorted state.
func ParseSorting(col, dir string) Sorting {
	c, ok := column(col)
	d := ParseDirection(dir)
	if !ok || !c.Sortable || d == None {
		return Sorting{}
	}
	return Sorting{Column: c.Key, Dir: d}
}

// Toggle returns the state after clicking the header of col:
// ascending, then descending, then back to unsorted.
func (s Sorting) Toggle(col string) Sorting {
	c, ok := column(col)
	if !ok || !c.Sortable {
		return s
	}
	if s.Column != col {
		return Sorting{Column: col, Dir: Asc}
	}
	switch s.Dir {
	case Asc:
		return Sorting{Column: col, Dir: Desc}
	case Desc:
		return Sorting{}
	default:
		return Sorting{Column: col, Dir: Asc}
	}
}

// Indicator is the arrow shown next to the header of col.
func (s Sorting) Indicator(col string) string {
	if s.Column != col {
		return ""
	}
	switch s.Dir {
	case Asc:
		return " ↑"
	case Desc:
		return " ↓"
	default:
		return ""
	}
}

// Sort returns a sorted copy of rows. Ties keep their loaded order.
func Sort(rows []pokedex.Summary, s Sorting) []pokedex.Summary {
	sorted := slices.Clone(rows)
	c, ok := column(s.Column)
	if !ok || !c.Sortable || s.Dir == None {
		return sorted
	}
	slices.SortStableFunc(sorted, func(a, b pokedex.Summary) int {
		if s.Dir == Desc {
			return c.compare(b, a)
		}
		return c.compare(a, b)
	})
	return sorted
}
