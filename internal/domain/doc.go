// Package domain models USGS earthquake events and PB2002 plate-boundary
// faults, and turns them into styled map layers.
//
// # Data Sources
//
// Earthquake events come from the USGS real-time GeoJSON summary feeds, e.g.
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson.
// Fault lines come from the PB2002 plate boundary model (Bird, 2003) shipped
// as a GeoJSON FeatureCollection of LineString features.
//
// # USGS Feed Conventions
//
// Coordinates:
//
//	geometry.coordinates = [longitude, latitude, depth]
//	Depth is in kilometres. Shallow events near the surface can report small
//	negative depths; they are not clamped.
//
// Properties used by the map:
//
//	mag    float magnitude, kept verbatim in the popup ("4.2")
//	place  free-text description, e.g. "10 km NE of Test City"
//	time   milliseconds since the Unix epoch, UTC
//
// A feature missing its geometry, one of those properties, or carrying a
// null value for one of them is malformed (see [ErrMalformedFeature]).
//
// # Depth Buckets
//
// Marker color is chosen from a six-color palette by depth, using half-open
// intervals with an inclusive lower bound:
//
//	      depth < 10  #00ff00  (shallow)
//	10 <= depth < 30  #dbcc0f
//	30 <= depth < 50  #efa915
//	50 <= depth < 70  #fa8419
//	70 <= depth < 90  #fe591c
//	90 <= depth       #ff001d  (deep)
//
// Marker radius is 5x the magnitude with no floor, so events of magnitude
// zero or below produce degenerate markers.
//
// # Binding
//
// A [Binder] converts raw features into a [Layer] through a [PointRenderer]
// for events and a [LineRenderer] for faults. Binding is all-or-nothing:
// the first malformed feature aborts the whole layer.
package domain
