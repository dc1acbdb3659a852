// Package web holds the HTML templates, embedded into the binary.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
