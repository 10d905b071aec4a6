// Package track assembles filtered activities into a renderable GeoJSON
// collection with per-activity elevation profiles.
package track

import "sort"

// FeatureCollection is the GeoJSON document written to track.geojson.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one activity's line geometry plus its properties.
type Feature struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Geometry   Geometry   `json:"geometry"`
}

// Properties carries the activity's identity, provider metrics and profile
// arrays. Index is assigned only after the full collection is sorted; a
// renderer uses it for alternating styling, so it must be contiguous.
type Properties struct {
	StravaID       int64     `json:"strava_id"`
	Name           string    `json:"name"`
	StartDate      string    `json:"start_date"`
	DistanceM      float64   `json:"distance_m"`
	MovingTimeS    int       `json:"moving_time_s"`
	Type           string    `json:"type"`
	ElevationGainM float64   `json:"elevation_gain_m"`
	ProfileDistM   []float64 `json:"profile_dist_m"`
	ProfileElevM   []float64 `json:"profile_elev_m"`
	Index          int       `json:"i"`
}

// Geometry is a GeoJSON LineString with [lon, lat] coordinate pairs.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// LatestPosition is the last known coordinate of the chronologically last
// activity with GPS, written to latest.json.
type LatestPosition struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	TS  string  `json:"ts"`
}

// Builder accumulates features and produces the sorted, indexed collection.
// The zero value is ready to use.
type Builder struct {
	features []Feature
}

// Add appends a feature. Insertion order does not matter; Build sorts.
func (b *Builder) Add(f Feature) {
	b.features = append(b.features, f)
}

// Build sorts the features ascending by start date, assigns each feature its
// 0-based rank as Index, and derives the latest position from the last
// coordinate of the chronologically last feature with GPS. The latest
// position is nil when no feature qualifies.
//
// Start dates are zero-padded ISO-8601 strings in one timezone format, so
// string comparison is chronological comparison.
func (b *Builder) Build() (FeatureCollection, *LatestPosition) {
	features := make([]Feature, len(b.features))
	copy(features, b.features)

	sort.SliceStable(features, func(i, j int) bool {
		return features[i].Properties.StartDate < features[j].Properties.StartDate
	})
	for i := range features {
		features[i].Properties.Index = i
	}

	var latest *LatestPosition
	for i := len(features) - 1; i >= 0; i-- {
		coords := features[i].Geometry.Coordinates
		if len(coords) == 0 {
			continue
		}
		last := coords[len(coords)-1]
		latest = &LatestPosition{
			Lat: last[1],
			Lon: last[0],
			TS:  features[i].Properties.StartDate,
		}
		break
	}

	return FeatureCollection{Type: "FeatureCollection", Features: features}, latest
}
