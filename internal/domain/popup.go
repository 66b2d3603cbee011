package domain

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"time"
)

// popupTimeLayout renders event times similar to a browser's Date string.
const popupTimeLayout = "Mon Jan 02 2006 15:04:05 MST"

// nullText stands in for a field the feed left null.
const nullText = "null"

// PopupText builds the HTML popup for an event marker. The place name is
// inserted verbatim unless escape is set. A null time renders as the epoch.
func PopupText(e EventRecord, escape bool) string {
	place := nullText
	if e.Place != nil {
		place = *e.Place
		if escape {
			place = html.EscapeString(place)
		}
	}
	var millis int64
	if e.TimeMillis != nil {
		millis = *e.TimeMillis
	}
	mag := nullText
	if e.Magnitude != nil {
		mag = strconv.FormatFloat(*e.Magnitude, 'f', -1, 64)
	}
	return fmt.Sprintf("<h3>%s</h3><hr><p>%s Depth: %s km  Magnitude: %s </p>",
		place,
		FormatEventTime(millis),
		formatDepth(e.Position.Depth),
		mag,
	)
}

// FormatEventTime renders epoch milliseconds as a UTC timestamp.
func FormatEventTime(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(popupTimeLayout)
}

// formatDepth rounds half up, so -2.5 becomes -2 and 2.5 becomes 3.
func formatDepth(depth float64) string {
	rounded := math.Floor(depth + 0.5)
	if rounded == 0 {
		// Avoid printing "-0".
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', 0, 64)
}
