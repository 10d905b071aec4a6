package strava

// Activity is the summary record returned by the listing endpoint. Only the
// fields the pipeline consumes are decoded. The start date stays a raw
// ISO-8601 string: Strava zero-pads and uses a single timezone format, so
// chronological order is lexicographic order.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	StartDate          string    `json:"start_date"`
	Distance           float64   `json:"distance"`             // metres
	MovingTime         int       `json:"moving_time"`          // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // metres
	StartLatLng        []float64 `json:"start_latlng"`
}

// HasStart reports whether the activity carries a usable start coordinate.
func (a Activity) HasStart() bool {
	return len(a.StartLatLng) == 2
}

// Streams is the per-activity stream response with key_by_type=true.
// Coordinate pairs are decoded loosely so malformed samples can be filtered
// instead of failing the whole activity.
type Streams struct {
	LatLng   *StreamData[[]float64] `json:"latlng"`
	Altitude *StreamData[float64]   `json:"altitude"`
	Time     *StreamData[int]       `json:"time"`
}

// StreamData represents a single stream type.
type StreamData[T any] struct {
	Data         []T    `json:"data"`
	SeriesType   string `json:"series_type"`
	OriginalSize int    `json:"original_size"`
	Resolution   string `json:"resolution"`
}

// LatLngData returns the GPS samples, or nil if the stream is absent.
func (s *Streams) LatLngData() [][]float64 {
	if s == nil || s.LatLng == nil {
		return nil
	}
	return s.LatLng.Data
}

// AltitudeData returns the altitude samples, or nil if the stream is absent.
func (s *Streams) AltitudeData() []float64 {
	if s == nil || s.Altitude == nil {
		return nil
	}
	return s.Altitude.Data
}
