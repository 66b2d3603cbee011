// Package mapview assembles bound layers, base imagery, the layer control,
// and the depth legend into a single renderable map view.
package mapview

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Base layer names, as shown in the layer control.
const (
	StreetLayer      = "Street"
	TopographicLayer = "Topographic"
	DarkLayer        = "Dark"
)

// LegendPosition is the screen corner the legend is pinned to.
const LegendPosition = "bottomright"

// TileLayer is one base imagery provider.
type TileLayer struct {
	Name        string `json:"name"`
	URLTemplate string `json:"url"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom,omitempty"`
}

// LayerControl lists what the user can toggle. Base layers are mutually
// exclusive; overlays toggle independently.
type LayerControl struct {
	BaseLayers []string `json:"baseLayers"`
	Overlays   []string `json:"overlays"`
	Collapsed  bool     `json:"collapsed"`
}

// LegendEntry pairs a palette color with its depth range label.
type LegendEntry struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// Legend is the static depth key.
type Legend struct {
	Title    string        `json:"title"`
	Position string        `json:"position"`
	Entries  []LegendEntry `json:"entries"`
}

// View is the fully composed map. It is built once and never mutated.
type View struct {
	Center         domain.LatLng  `json:"center"`
	Zoom           int            `json:"zoom"`
	BaseLayers     []TileLayer    `json:"baseLayers"`
	ActiveBase     string         `json:"activeBase"`
	Overlays       []domain.Layer `json:"overlays"`
	ActiveOverlays []string       `json:"activeOverlays"`
	Control        LayerControl   `json:"control"`
	Legend         Legend         `json:"legend"`
	GeneratedAt    time.Time      `json:"generatedAt"`
}

// Overlay returns the overlay with the given name.
func (v *View) Overlay(name string) (domain.Layer, bool) {
	for _, l := range v.Overlays {
		if l.Name == name {
			return l, true
		}
	}
	return domain.Layer{}, false
}

// Composer builds views around a fixed center and zoom.
type Composer struct {
	center domain.LatLng
	zoom   int
	clock  clockwork.Clock
}

// NewComposer creates a Composer. A nil clock uses real time.
func NewComposer(center domain.LatLng, zoom int, clock clockwork.Clock) *Composer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Composer{center: center, zoom: zoom, clock: clock}
}

// Compose assembles the view with the street base layer and the event
// overlay active. The fault overlay is registered but starts hidden.
func (c *Composer) Compose(events, faults domain.Layer) *View {
	base := BaseLayers()
	baseNames := make([]string, len(base))
	for i, b := range base {
		baseNames[i] = b.Name
	}

	return &View{
		Center:         c.center,
		Zoom:           c.zoom,
		BaseLayers:     base,
		ActiveBase:     StreetLayer,
		Overlays:       []domain.Layer{events, faults},
		ActiveOverlays: []string{events.Name},
		Control: LayerControl{
			BaseLayers: baseNames,
			Overlays:   []string{events.Name, faults.Name},
			Collapsed:  false,
		},
		Legend:      DepthLegend(),
		GeneratedAt: c.clock.Now().UTC(),
	}
}

// BaseLayers returns the three base imagery providers in control order.
func BaseLayers() []TileLayer {
	return []TileLayer{
		{
			Name:        StreetLayer,
			URLTemplate: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		},
		{
			Name:        TopographicLayer,
			URLTemplate: "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
			Attribution: "Tiles &copy; Esri &mdash; Source: Esri, i-cubed, USDA, USGS, AEX, GeoEye, Getmapping, Aerogrid, IGN, IGP, UPR-EGP, and the GIS User Community",
		},
		{
			Name:        DarkLayer,
			URLTemplate: "https://tiles.stadiamaps.com/tiles/alidade_smooth_dark/{z}/{x}/{y}{r}.png",
			Attribution: `&copy; <a href="https://stadiamaps.com/">Stadia Maps</a>, &copy; <a href="https://openmaptiles.org/">OpenMapTiles</a> &copy; <a href="http://openstreetmap.org">OpenStreetMap</a> contributors`,
			MaxZoom:     20,
		},
	}
}

// DepthLegend returns the six legend entries, shallow first.
func DepthLegend() Legend {
	return Legend{
		Title:    "Earthquake Depth (km)",
		Position: LegendPosition,
		Entries: []LegendEntry{
			{Color: domain.Palette[5], Label: "-10–10"},
			{Color: domain.Palette[4], Label: "10–30"},
			{Color: domain.Palette[3], Label: "30–50"},
			{Color: domain.Palette[2], Label: "50–70"},
			{Color: domain.Palette[1], Label: "70–90"},
			{Color: domain.Palette[0], Label: "90+"},
		},
	}
}
