package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedFeature marks a feature that lacks the geometry or properties
// object needed to render it. Any occurrence aborts the bind pass.
var ErrMalformedFeature = errors.New("malformed feature")

// eventProperties are the USGS properties the map reads. Pointers tell a
// missing or null field apart from a zero value.
type eventProperties struct {
	Mag   *float64 `json:"mag"`
	Place *string  `json:"place"`
	Time  *int64   `json:"time"`
}

type faultProperties struct {
	Name string `json:"Name"`
}

// ParseEventRecord decodes a USGS Point feature into an EventRecord.
func ParseEventRecord(f Feature) (EventRecord, error) {
	coords, err := pointCoordinates(f)
	if err != nil {
		return EventRecord{}, err
	}

	if len(f.Properties) == 0 || string(f.Properties) == "null" {
		return EventRecord{}, malformed(f, "missing properties")
	}
	var props eventProperties
	if err := json.Unmarshal(f.Properties, &props); err != nil {
		return EventRecord{}, malformed(f, "decode properties: %v", err)
	}

	// Null or absent mag, place and time are kept as nil and rendered as such.
	return EventRecord{
		ID:         string(f.ID),
		Position:   Position{Lon: coords[0], Lat: coords[1], Depth: coords[2]},
		Magnitude:  props.Mag,
		Place:      props.Place,
		TimeMillis: props.Time,
	}, nil
}

// ParseFaultRecords decodes a PB2002 boundary feature. A LineString yields
// one record and a MultiLineString one record per part. Properties are
// optional for faults; only the boundary name is read.
func ParseFaultRecords(f Feature) ([]FaultRecord, error) {
	if f.Geometry == nil {
		return nil, malformed(f, "missing geometry")
	}

	var lines [][][]float64
	switch f.Geometry.Type {
	case "LineString":
		var coords [][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
			return nil, malformed(f, "decode coordinates: %v", err)
		}
		lines = [][][]float64{coords}
	case "MultiLineString":
		if err := json.Unmarshal(f.Geometry.Coordinates, &lines); err != nil {
			return nil, malformed(f, "decode coordinates: %v", err)
		}
	default:
		return nil, malformed(f, "geometry type %q, want LineString or MultiLineString", f.Geometry.Type)
	}

	var props faultProperties
	if len(f.Properties) > 0 {
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			return nil, malformed(f, "decode properties: %v", err)
		}
	}

	records := make([]FaultRecord, 0, len(lines))
	for _, coords := range lines {
		// Short lines draw nothing but are not an error.
		vertices := make([]Vertex, len(coords))
		for i, c := range coords {
			if len(c) < 2 {
				return nil, malformed(f, "vertex %d has %d coordinates", i, len(c))
			}
			vertices[i] = Vertex{Lon: c[0], Lat: c[1]}
		}
		records = append(records, FaultRecord{Name: props.Name, Vertices: vertices})
	}
	return records, nil
}

func pointCoordinates(f Feature) ([]float64, error) {
	if f.Geometry == nil {
		return nil, malformed(f, "missing geometry")
	}
	if f.Geometry.Type != "Point" {
		return nil, malformed(f, "geometry type %q, want Point", f.Geometry.Type)
	}
	var coords []float64
	if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
		return nil, malformed(f, "decode coordinates: %v", err)
	}
	// Depth is the third coordinate and is required for styling.
	if len(coords) < 3 {
		return nil, malformed(f, "point has %d coordinates, want 3", len(coords))
	}
	return coords, nil
}

func malformed(f Feature, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if f.ID != "" {
		return fmt.Errorf("%w: feature %s: %s", ErrMalformedFeature, f.ID, msg)
	}
	return fmt.Errorf("%w: %s", ErrMalformedFeature, msg)
}
