package mapview

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

// ElementID is the id of the host element the map mounts on.
const ElementID = "map"

const pageTitle = "Earthquakes and Plate Boundaries"

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

type pageData struct {
	Title     string
	ElementID string
	View      *View
	Reason    string
}

// RenderPage writes the HTML document that mounts view on the host element.
func RenderPage(w io.Writer, view *View) error {
	if view == nil {
		return fmt.Errorf("render page: nil view")
	}
	if err := templates.ExecuteTemplate(w, "map.html.tmpl", pageData{
		Title:     pageTitle,
		ElementID: ElementID,
		View:      view,
	}); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// RenderUnavailablePage writes the fallback page shown when no view could be built.
func RenderUnavailablePage(w io.Writer, reason string) error {
	if err := templates.ExecuteTemplate(w, "unavailable.html.tmpl", pageData{
		Title:     pageTitle,
		ElementID: ElementID,
		Reason:    reason,
	}); err != nil {
		return fmt.Errorf("render unavailable page: %w", err)
	}
	return nil
}
