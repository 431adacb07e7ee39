// Package frontend embeds the html templates and static assets of the web ui.
package frontend

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed static
var assets embed.FS

//go:embed templates/*.tmpl
var templates embed.FS

// GetAssetFS returns the static assets rooted at the static directory.
func GetAssetFS() (fs.FS, error) {
	return fs.Sub(assets, "static")
}

// ParseTemplates parses every page template with the given helpers.
func ParseTemplates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templates, "templates/*.tmpl")
}
