package domain

// Palette orders marker colors from deepest (index 0) to shallowest (index 5).
var Palette = [6]string{"#ff001d", "#fe591c", "#fa8419", "#efa915", "#dbcc0f", "#00ff00"}

const (
	markerRadiusScale  = 5.0
	markerStrokeWeight = 1.0
	markerFillOpacity  = 0.6

	// FaultColor and FaultWeight style every plate boundary line.
	FaultColor  = "#ffb138"
	FaultWeight = 2.0
)

// StyleDescriptor holds the visual parameters of one circle marker.
type StyleDescriptor struct {
	Radius       float64 `json:"radius"`
	FillColor    string  `json:"fillColor"`
	StrokeColor  string  `json:"color"`
	StrokeWeight float64 `json:"weight"`
	FillOpacity  float64 `json:"fillOpacity"`
}

// LineStyle holds the visual parameters of a polyline.
type LineStyle struct {
	Color  string  `json:"color"`
	Weight float64 `json:"weight"`
}

// DepthColor maps an event depth in kilometres to a palette color. Bounds are
// inclusive below and exclusive above; negative depths are shallow.
func DepthColor(depth float64) string {
	switch {
	case depth < 10:
		return Palette[5]
	case depth < 30:
		return Palette[4]
	case depth < 50:
		return Palette[3]
	case depth < 70:
		return Palette[2]
	case depth < 90:
		return Palette[1]
	default:
		return Palette[0]
	}
}

// MarkerStyle derives a circle marker style from magnitude and depth.
// The radius is not clamped: magnitudes at or below zero give a degenerate marker.
func MarkerStyle(magnitude, depth float64) StyleDescriptor {
	color := DepthColor(depth)
	return StyleDescriptor{
		Radius:       markerRadiusScale * magnitude,
		FillColor:    color,
		StrokeColor:  color,
		StrokeWeight: markerStrokeWeight,
		FillOpacity:  markerFillOpacity,
	}
}

// FaultLineStyle is the uniform style applied to every fault line.
func FaultLineStyle() LineStyle {
	return LineStyle{Color: FaultColor, Weight: FaultWeight}
}
