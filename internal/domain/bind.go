package domain

import "fmt"

// Overlay layer names, as shown in the layer control.
const (
	EventLayerName = "Earthquakes"
	FaultLayerName = "Faults"
)

// CircleMarker is the rendered shape for one event.
type CircleMarker struct {
	EventID string          `json:"eventId,omitempty"`
	Center  LatLng          `json:"center"`
	Style   StyleDescriptor `json:"style"`
	Popup   string          `json:"popup"`
}

// Polyline is the rendered shape for one fault boundary.
type Polyline struct {
	Name  string    `json:"name,omitempty"`
	Path  []LatLng  `json:"path"`
	Style LineStyle `json:"style"`
}

// Layer is a named collection of shapes. It is not modified once bound.
type Layer struct {
	Name    string         `json:"name"`
	Markers []CircleMarker `json:"markers,omitempty"`
	Lines   []Polyline     `json:"lines,omitempty"`
}

// Len reports the number of shapes in the layer.
func (l Layer) Len() int {
	return len(l.Markers) + len(l.Lines)
}

// PointRenderer turns an event positioned at a map coordinate into a marker.
type PointRenderer interface {
	RenderPoint(e EventRecord, at LatLng) CircleMarker
}

// LineRenderer turns a fault and its projected path into a polyline.
type LineRenderer interface {
	RenderLine(f FaultRecord, path []LatLng) Polyline
}

// PointRendererFunc adapts a function to PointRenderer.
type PointRendererFunc func(e EventRecord, at LatLng) CircleMarker

func (fn PointRendererFunc) RenderPoint(e EventRecord, at LatLng) CircleMarker { return fn(e, at) }

// LineRendererFunc adapts a function to LineRenderer.
type LineRendererFunc func(f FaultRecord, path []LatLng) Polyline

func (fn LineRendererFunc) RenderLine(f FaultRecord, path []LatLng) Polyline { return fn(f, path) }

// CircleMarkerRenderer styles events with MarkerStyle and attaches a popup.
func CircleMarkerRenderer(escapePopups bool) PointRenderer {
	return PointRendererFunc(func(e EventRecord, at LatLng) CircleMarker {
		return CircleMarker{
			EventID: e.ID,
			Center:  at,
			Style:   MarkerStyle(e.MagnitudeOrZero(), e.Position.Depth),
			Popup:   PopupText(e, escapePopups),
		}
	})
}

// FaultLineRenderer draws every fault with the same style.
func FaultLineRenderer() LineRenderer {
	return LineRendererFunc(func(f FaultRecord, path []LatLng) Polyline {
		return Polyline{Name: f.Name, Path: path, Style: FaultLineStyle()}
	})
}

// Binder converts raw features into map layers.
type Binder struct {
	points PointRenderer
	lines  LineRenderer
}

// NewBinder creates a Binder. Nil renderers fall back to the defaults.
func NewBinder(points PointRenderer, lines LineRenderer) *Binder {
	if points == nil {
		points = CircleMarkerRenderer(false)
	}
	if lines == nil {
		lines = FaultLineRenderer()
	}
	return &Binder{points: points, lines: lines}
}

// BindEventLayer builds the earthquake layer, one marker per feature. The
// first malformed feature fails the whole layer.
func (b *Binder) BindEventLayer(features []Feature) (Layer, error) {
	layer := Layer{Name: EventLayerName, Markers: make([]CircleMarker, 0, len(features))}
	for i, f := range features {
		rec, err := ParseEventRecord(f)
		if err != nil {
			return Layer{}, fmt.Errorf("bind event %d: %w", i, err)
		}
		at := LatLng{Lat: rec.Position.Lat, Lng: rec.Position.Lon}
		layer.Markers = append(layer.Markers, b.points.RenderPoint(rec, at))
	}
	return layer, nil
}

// BindFaultLayer builds the fault layer, one polyline per line string. No
// features yields an empty layer.
func (b *Binder) BindFaultLayer(features []Feature) (Layer, error) {
	layer := Layer{Name: FaultLayerName, Lines: make([]Polyline, 0, len(features))}
	for i, f := range features {
		recs, err := ParseFaultRecords(f)
		if err != nil {
			return Layer{}, fmt.Errorf("bind fault %d: %w", i, err)
		}
		for _, rec := range recs {
			path := make([]LatLng, len(rec.Vertices))
			for j, v := range rec.Vertices {
				path[j] = LatLng{Lat: v.Lat, Lng: v.Lon}
			}
			layer.Lines = append(layer.Lines, b.lines.RenderLine(rec, path))
		}
	}
	return layer, nil
}
