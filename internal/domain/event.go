package domain

import "encoding/json"

// FeatureCollection is the top-level GeoJSON document served by both sources.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single undecoded GeoJSON feature. Geometry and properties are
// kept raw so events and faults can interpret them differently.
type Feature struct {
	Type       string          `json:"type"`
	ID         FeatureID       `json:"id,omitempty"`
	Geometry   *Geometry       `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

// FeatureID is a GeoJSON feature id. RFC 7946 allows strings or numbers;
// numbers are kept in their JSON text form.
type FeatureID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *FeatureID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = FeatureID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FeatureID(n.String())
	return nil
}

// Geometry is a GeoJSON geometry whose coordinates depend on Type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Position is an event hypocenter in feed order: longitude, latitude, depth (km).
type Position struct {
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Depth float64 `json:"depth"`
}

// Vertex is one point of a fault boundary line.
type Vertex struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// EventRecord is one earthquake observation. The feed publishes null
// magnitudes and places for some events, so those fields are optional.
type EventRecord struct {
	ID         string   `json:"id,omitempty"`
	Position   Position `json:"position"`
	Magnitude  *float64 `json:"magnitude"`
	Place      *string  `json:"place"`
	TimeMillis *int64   `json:"time"`
}

// MagnitudeOrZero returns the magnitude, or 0 when the feed left it null.
func (e EventRecord) MagnitudeOrZero() float64 {
	if e.Magnitude == nil {
		return 0
	}
	return *e.Magnitude
}

// FaultRecord is one plate boundary polyline.
type FaultRecord struct {
	Name     string   `json:"name,omitempty"`
	Vertices []Vertex `json:"vertices"`
}

// LatLng is a target map coordinate. Note the order is the reverse of GeoJSON.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MarshalJSON encodes the coordinate as a [lat, lng] pair, the form Leaflet accepts.
func (l LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{l.Lat, l.Lng})
}

// UnmarshalJSON decodes a [lat, lng] pair.
func (l *LatLng) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	l.Lat, l.Lng = pair[0], pair[1]
	return nil
}
