package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

// WriteHTML renders m as a standalone Leaflet page.
func WriteHTML(w io.Writer, m *Map) error {
	if err := mapTemplate.Execute(w, m); err != nil {
		return fmt.Errorf("error rendering %q: %w", m.Title, err)
	}
	return nil
}
