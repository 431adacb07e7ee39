package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/nerdwave-nick/pokedex/internal/pokeapi"
	"github.com/nerdwave-nick/pokedex/internal/pokedex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrowser struct {
	rows         []pokedex.Summary
	browseErr    error
	detailErr    error
	detailCalls  []int
	browsedPages []int
	browsedQuery []string
}

func newFakeBrowser(n int) *fakeBrowser {
	rows := make([]pokedex.Summary, n)
	for i := range rows {
		rows[i] = pokedex.Summary{
			ID:             i + 1,
			Name:           fmt.Sprintf("mon-%02d", i+1),
			Sprite:         fmt.Sprintf("https://img/%d.png", i+1),
			Types:          []string{"normal"},
			BaseExperience: 100 - i,
		}
	}
	return &fakeBrowser{rows: rows}
}

func (f *fakeBrowser) Browse(_ context.Context, query string, page int) (*pokedex.Result, error) {
	f.browsedPages = append(f.browsedPages, page)
	f.browsedQuery = append(f.browsedQuery, query)
	if f.browseErr != nil {
		return nil, f.browseErr
	}
	if query == "" {
		return &pokedex.Result{Page: page, Pokemon: f.rows}, nil
	}
	for _, r := range f.rows {
		if r.Name == strings.ToLower(query) {
			return &pokedex.Result{Query: query, Page: page, Pokemon: []pokedex.Summary{r}}, nil
		}
	}
	return &pokedex.Result{Query: query, Page: page, Pokemon: []pokedex.Summary{}, NotFound: true, Suggestions: []string{"mon-01"}}, nil
}

func (f *fakeBrowser) Detail(_ context.Context, name string, triggerPage int) (*pokedex.Detail, error) {
	f.detailCalls = append(f.detailCalls, triggerPage)
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	triggers := make([]pokedex.Trigger, 0, pokedex.TriggerPageSize)
	for i := range pokedex.TriggerPageSize {
		id := triggerPage*pokedex.TriggerPageSize + i + 1
		triggers = append(triggers, pokedex.Trigger{ID: id, Name: fmt.Sprintf("trigger-%d", id)})
	}
	return &pokedex.Detail{
		Summary:     pokedex.Summary{Name: name, Height: 7, Weight: 69},
		Abilities:   []string{"overgrow", "chlorophyll"},
		TriggerPage: triggerPage,
		Triggers:    triggers,
	}, nil
}

func serve(t *testing.T, b Browser, target string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	h, err := NewHandler(b)
	require.NoError(t, err)
	mux := http.NewServeMux()
	h.Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return rec, doc
}

func hrefQuery(t *testing.T, sel *goquery.Selection) url.Values {
	t.Helper()
	href, ok := sel.Attr("href")
	require.True(t, ok, "missing href")
	u, err := url.Parse(href)
	require.NoError(t, err)
	return u.Query()
}

func TestListingPage(t *testing.T) {
	b := newFakeBrowser(pokedex.PageSize)
	rec, doc := serve(t, b, "/?page=2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2}, b.browsedPages)
	rows := doc.Find("table.pokemon tbody tr")
	assert.Equal(t, pokedex.PageSize, rows.Length())
	first := rows.First()
	assert.Equal(t, "mon-01", strings.TrimSpace(first.Find("td").First().Text()))
	src, _ := first.Find("img").Attr("src")
	assert.Equal(t, "https://img/1.png", src)
	assert.Equal(t, "normal", first.Find("td span").Text())

	assert.Equal(t, "1", hrefQuery(t, doc.Find("#prev-page")).Get("page"))
	assert.Equal(t, "3", hrefQuery(t, doc.Find("#next-page")).Get("page"))
	assert.Equal(t, 0, doc.Find("#not-found").Length())
}

func TestPrevPageClampsAtZero(t *testing.T) {
	_, doc := serve(t, newFakeBrowser(3), "/?page=0")
	assert.Equal(t, "0", hrefQuery(t, doc.Find("#prev-page")).Get("page"))
	assert.Equal(t, "1", hrefQuery(t, doc.Find("#next-page")).Get("page"))
}

func TestGarbagePageIsZero(t *testing.T) {
	for _, target := range []string{"/", "/?page=abc", "/?page=-4"} {
		b := newFakeBrowser(3)
		serve(t, b, target)
		assert.Equal(t, []int{0}, b.browsedPages, target)
	}
}

func TestHugePageIsCapped(t *testing.T) {
	b := newFakeBrowser(3)
	_, doc := serve(t, b, "/?page=500000000000000000&selected=mon-01&triggers=900000000000000000")
	assert.Equal(t, []int{pokedex.MaxPage}, b.browsedPages)
	assert.Equal(t, []int{pokedex.MaxPage}, b.detailCalls)
	assert.Equal(t, fmt.Sprint(pokedex.MaxPage), hrefQuery(t, doc.Find("#next-page")).Get("page"))
}

func TestSearchFound(t *testing.T) {
	b := newFakeBrowser(5)
	_, doc := serve(t, b, "/?query=MON-03")

	assert.Equal(t, []string{"MON-03"}, b.browsedQuery)
	rows := doc.Find("table.pokemon tbody tr")
	require.Equal(t, 1, rows.Length())
	name, _ := rows.Attr("data-name")
	assert.Equal(t, "mon-03", name)
	assert.Equal(t, 0, doc.Find(".pager #next-page").Length(), "search hides pagination")
	value, _ := doc.Find("#search").Attr("value")
	assert.Equal(t, "MON-03", value)
}

func TestSearchNotFound(t *testing.T) {
	_, doc := serve(t, newFakeBrowser(5), "/?query=agumon")

	assert.Equal(t, pokedex.NotFoundMessage, strings.TrimSpace(doc.Find("#not-found").Text()))
	assert.Equal(t, 0, doc.Find("table.pokemon tbody tr").Length())
	assert.Equal(t, 0, doc.Find("#next-page").Length())
	assert.Equal(t, "mon-01", hrefQuery(t, doc.Find(".suggestions a")).Get("query"))
}

func TestHeaderLinksCycleSorting(t *testing.T) {
	b := newFakeBrowser(4)
	header := func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(`th[data-column="base_experience"] a`)
	}

	_, doc := serve(t, b, "/?page=1")
	q := hrefQuery(t, header(doc))
	assert.Equal(t, "base_experience", q.Get("sort"))
	assert.Equal(t, "asc", q.Get("dir"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, 0, doc.Find(`th[data-column="sprite"] a`).Length(), "sprite column is not sortable")

	_, doc = serve(t, b, "/?page=1&sort=base_experience&dir=asc")
	names := doc.Find("table.pokemon tbody tr").Map(func(_ int, s *goquery.Selection) string {
		return s.AttrOr("data-name", "")
	})
	assert.Equal(t, []string{"mon-04", "mon-03", "mon-02", "mon-01"}, names)
	assert.Contains(t, header(doc).Text(), "↑")
	q = hrefQuery(t, header(doc))
	assert.Equal(t, "desc", q.Get("dir"))

	_, doc = serve(t, b, "/?page=1&sort=base_experience&dir=desc")
	names = doc.Find("table.pokemon tbody tr").Map(func(_ int, s *goquery.Selection) string {
		return s.AttrOr("data-name", "")
	})
	assert.Equal(t, []string{"mon-01", "mon-02", "mon-03", "mon-04"}, names)
	assert.Contains(t, header(doc).Text(), "↓")
	q = hrefQuery(t, header(doc))
	assert.Empty(t, q.Get("sort"), "third click clears sorting")
	assert.Empty(t, q.Get("dir"))
	assert.Equal(t, []int{1, 1, 1}, b.browsedPages, "sorting only reorders the loaded page")
}

func TestRowOpensModal(t *testing.T) {
	b := newFakeBrowser(3)
	_, doc := serve(t, b, "/?page=0&sort=name&dir=desc")

	q := hrefQuery(t, doc.Find(`tr[data-name="mon-02"] td a`).First())
	assert.Equal(t, "mon-02", q.Get("selected"))
	assert.Equal(t, "0", q.Get("triggers"))
	assert.Equal(t, "name", q.Get("sort"))
	assert.Empty(t, b.detailCalls, "no modal until a row is selected")
	assert.Equal(t, 0, doc.Find(".modal").Length())
}

func TestModalTriggerPaging(t *testing.T) {
	b := newFakeBrowser(3)
	_, doc := serve(t, b, "/?page=0&selected=mon-02&triggers=0")

	require.Equal(t, 1, doc.Find(".modal").Length())
	assert.Equal(t, "mon-02", doc.Find("#modal-title").Text())
	assert.Equal(t, "0.7 m", doc.Find("#height").Text())
	assert.Equal(t, "6.9 kg", doc.Find("#weight").Text())
	assert.Equal(t, "N/A", doc.Find("#base-experience").Text())
	assert.Equal(t, 2, doc.Find(".ability").Length())
	assert.Equal(t, pokedex.TriggerPageSize, doc.Find("table.triggers tbody tr").Length())
	assert.Equal(t, "0", hrefQuery(t, doc.Find("#prev-triggers")).Get("triggers"), "prev at 0 stays at 0")

	next := hrefQuery(t, doc.Find("#next-triggers"))
	assert.Equal(t, "1", next.Get("triggers"))
	assert.Equal(t, "mon-02", next.Get("selected"))
	assert.Equal(t, "0", next.Get("page"))

	_, doc = serve(t, b, "/?"+next.Encode())
	cells := doc.Find("table.triggers tbody tr").First().Find("td")
	assert.Equal(t, "6", cells.First().Text())
	assert.Equal(t, "trigger-6", cells.Last().Text())
	assert.Equal(t, []int{0, 1}, b.detailCalls)

	closeQuery := hrefQuery(t, doc.Find(".modal .close"))
	assert.Empty(t, closeQuery.Get("selected"))
	assert.Empty(t, closeQuery.Get("triggers"))
}

func TestModalForUnknownPokemonIsSkipped(t *testing.T) {
	b := newFakeBrowser(3)
	b.detailErr = fmt.Errorf("fetching: %w", pokeapi.ErrNotFound)
	rec, doc := serve(t, b, "/?selected=agumon")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, doc.Find(".modal").Length())
	assert.Equal(t, 3, doc.Find("table.pokemon tbody tr").Length())
}

func TestUpstreamFailureRendersBadGateway(t *testing.T) {
	b := newFakeBrowser(3)
	b.browseErr = errors.New("connection refused")
	rec, doc := serve(t, b, "/?page=1")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 0, doc.Find("table.pokemon").Length())
	assert.NotEmpty(t, doc.Find(".error").Text())
}

func TestStaticAssets(t *testing.T) {
	h, err := NewHandler(newFakeBrowser(1))
	require.NoError(t, err)
	mux := http.NewServeMux()
	h.Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "500")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestLogger(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(requestIDHeader))
}
