package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/nerdwave-nick/pokedex/internal/pokedex"
	"github.com/nerdwave-nick/pokedex/internal/table"
)

// state is everything the page keeps in the address bar.
type state struct {
	Query    string
	Page     int
	Sort     table.Sorting
	Selected string
	Triggers int
}

func parseState(q url.Values) state {
	return state{
		Query:    strings.TrimSpace(q.Get("query")),
		Page:     parseIndex(q.Get("page")),
		Sort:     table.ParseSorting(q.Get("sort"), q.Get("dir")),
		Selected: strings.TrimSpace(q.Get("selected")),
		Triggers: parseIndex(q.Get("triggers")),
	}
}

// parseIndex reads a zero based page index. Anything that is not a non-negative integer is 0,
// and indexes past pokedex.MaxPage are capped.
func parseIndex(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return pokedex.ClampPage(n)
}

func (s state) URL() string {
	q := url.Values{}
	if s.Query != "" {
		q.Set("query", s.Query)
	} else {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.Sort.Dir != table.None {
		q.Set("sort", s.Sort.Column)
		q.Set("dir", s.Sort.Dir.String())
	}
	if s.Selected != "" {
		q.Set("selected", s.Selected)
		q.Set("triggers", strconv.Itoa(s.Triggers))
	}
	return "/?" + q.Encode()
}

// withPage moves to another listing page, which drops sorting and any open modal.
func (s state) withPage(page int) state {
	return state{Page: pokedex.ClampPage(page)}
}

func (s state) withSort(col string) state {
	s.Sort = s.Sort.Toggle(col)
	s.Selected = ""
	s.Triggers = 0
	return s
}

func (s state) withSelected(name string) state {
	s.Selected = name
	s.Triggers = 0
	return s
}

func (s state) withTriggers(page int) state {
	s.Triggers = pokedex.ClampPage(page)
	return s
}

func (s state) closed() state {
	s.Selected = ""
	s.Triggers = 0
	return s
}
