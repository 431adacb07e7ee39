// Package web serves the server rendered pokemon table, search and detail modal.
package web

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/nerdwave-nick/pokedex/internal/frontend"
	"github.com/nerdwave-nick/pokedex/internal/pokedex"
	"github.com/nerdwave-nick/pokedex/internal/table"
)

// Browser is what the page needs from the pokedex service.
type Browser interface {
	Browse(ctx context.Context, query string, page int) (*pokedex.Result, error)
	Detail(ctx context.Context, name string, triggerPage int) (*pokedex.Detail, error)
}

type Handler struct {
	browser Browser
	tmpl    *template.Template
	assets  fs.FS
}

func NewHandler(browser Browser) (*Handler, error) {
	tmpl, err := frontend.ParseTemplates(nil)
	if err != nil {
		return nil, err
	}
	assets, err := frontend.GetAssetFS()
	if err != nil {
		return nil, err
	}
	return &Handler{browser: browser, tmpl: tmpl, assets: assets}, nil
}

// Register mounts the page and its static assets on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(h.assets))))
	mux.Handle("GET /{$}", h)
}

type headerView struct {
	Key       string
	Title     string
	Sortable  bool
	Href      string
	Indicator string
}

type rowView struct {
	pokedex.Summary
	Href string
}

type linkView struct {
	Name string
	Href string
}

type modalView struct {
	Detail    *pokedex.Detail
	PrevHref  string
	NextHref  string
	CloseHref string
}

type pageView struct {
	Query           string
	NotFound        bool
	NotFoundMessage string
	Suggestions     []linkView
	Headers         []headerView
	Rows            []rowView
	Paginated       bool
	PrevHref        string
	NextHref        string
	Modal           *modalView
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st := parseState(r.URL.Query())

	result, err := h.browser.Browse(r.Context(), st.Query, st.Page)
	if err != nil {
		slog.Error("browsing pokemon", slog.String("query", st.Query), slog.Int("page", st.Page), slog.Any("error", err))
		h.renderError(w, http.StatusBadGateway, "Could not load Pokémon, please try again later.")
		return
	}

	view := pageView{
		Query:           st.Query,
		NotFound:        result.NotFound,
		NotFoundMessage: pokedex.NotFoundMessage,
		Paginated:       !result.IsSearch(),
		PrevHref:        st.withPage(st.Page - 1).URL(),
		NextHref:        st.withPage(st.Page + 1).URL(),
	}
	for _, name := range result.Suggestions {
		view.Suggestions = append(view.Suggestions, linkView{Name: name, Href: state{Query: name}.URL()})
	}
	for _, c := range table.Columns {
		header := headerView{Key: c.Key, Title: c.Title, Sortable: c.Sortable}
		if c.Sortable {
			header.Href = st.withSort(c.Key).URL()
			header.Indicator = st.Sort.Indicator(c.Key)
		}
		view.Headers = append(view.Headers, header)
	}
	for _, row := range table.Sort(result.Pokemon, st.Sort) {
		view.Rows = append(view.Rows, rowView{Summary: row, Href: st.withSelected(row.Name).URL()})
	}

	if st.Selected != "" {
		detail, err := h.browser.Detail(r.Context(), st.Selected, st.Triggers)
		switch {
		case errors.Is(err, pokedex.ErrNotFound):
			slog.Debug("selected pokemon not found", slog.String("name", st.Selected))
		case err != nil:
			slog.Error("loading pokemon detail", slog.String("name", st.Selected), slog.Any("error", err))
			h.renderError(w, http.StatusBadGateway, "Could not load Pokémon details, please try again later.")
			return
		default:
			view.Modal = &modalView{
				Detail:    detail,
				PrevHref:  st.withTriggers(detail.PrevTriggerPage()).URL(),
				NextHref:  st.withTriggers(detail.NextTriggerPage()).URL(),
				CloseHref: st.closed().URL(),
			}
		}
	}

	h.render(w, http.StatusOK, "index", view)
}

func (h *Handler) renderError(w http.ResponseWriter, status int, message string) {
	h.render(w, status, "error", message)
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("rendering template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
