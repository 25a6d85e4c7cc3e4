// Package web embeds the HTML templates for the server-rendered pages.
package web

import (
	"embed"
	"html/template"

	"github.com/fleveque/brandbook-service/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page template with the helper functions they use.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"contrast": model.ContrastColor,
		"inc":      func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
}
