package track

import (
	"math"

	"pcttracker/internal/geo"
)

// ProfileMaxPoints caps the stored elevation profile length per activity,
// which keeps the output file size bounded.
const ProfileMaxPoints = 220

// Profile is the cumulative-distance / elevation series for one activity.
// DistM and ElevM always share length; both are empty when no altitude
// series was available.
type Profile struct {
	DistM []float64
	ElevM []float64
	GainM float64
}

// ProcessStreams turns one activity's raw stream samples into renderable
// geometry and an elevation profile.
//
// Geometry is the GPS series reordered to GeoJSON [lon, lat] pairs, keeping
// only well-formed 2-element samples. A profile is built only when the
// altitude series exists and matches the GPS series sample for sample;
// otherwise the profile is empty and the gain falls back to fallbackGainM
// (the provider-reported total).
//
// ok is false when there is no usable geometry (missing GPS or fewer than
// two points); such activities are excluded from the output, which is a
// degradation, not an error.
func ProcessStreams(latlng [][]float64, altitude []float64, fallbackGainM float64) (coords [][]float64, prof Profile, ok bool) {
	if len(latlng) < 2 {
		return nil, Profile{}, false
	}

	pairs := make([][]float64, 0, len(latlng))
	coords = make([][]float64, 0, len(latlng))
	for _, p := range latlng {
		if len(p) != 2 {
			continue
		}
		pairs = append(pairs, p)
		coords = append(coords, []float64{p[1], p[0]})
	}
	if len(pairs) < 2 {
		return nil, Profile{}, false
	}

	// The altitude series must align with the GPS series exactly; a partial
	// or padded series cannot be trusted sample for sample.
	if len(altitude) == 0 || len(altitude) != len(latlng) || len(pairs) != len(latlng) {
		return coords, Profile{DistM: []float64{}, ElevM: []float64{}, GainM: fallbackGainM}, true
	}

	distM := make([]float64, 1, len(pairs))
	elevM := make([]float64, 1, len(pairs))
	distM[0] = 0
	elevM[0] = altitude[0]

	var cum, gain float64
	prevLat, prevLon := pairs[0][0], pairs[0][1]
	prevElev := altitude[0]

	for i := 1; i < len(pairs); i++ {
		lat, lon := pairs[i][0], pairs[i][1]
		cum += geo.Haversine(prevLat, prevLon, lat, lon)
		distM = append(distM, cum)

		e := altitude[i]
		elevM = append(elevM, e)

		// Ascent-only gain: descents are ignored.
		if delta := e - prevElev; delta > 0 {
			gain += delta
		}

		prevLat, prevLon, prevElev = lat, lon, e
	}

	distM, elevM = Downsample(distM, elevM, ProfileMaxPoints)
	return coords, Profile{DistM: distM, ElevM: elevM, GainM: gain}, true
}

// Downsample reduces the co-indexed series to at most maxPoints by even
// floating-point index stepping rounded to the nearest sample. The first and
// last samples always survive, and a truncated result has exactly maxPoints
// entries. Series that already fit are returned unchanged.
func Downsample(xs, ys []float64, maxPoints int) ([]float64, []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n <= maxPoints {
		return xs[:n], ys[:n]
	}

	step := float64(n-1) / float64(maxPoints-1)
	outX := make([]float64, 0, maxPoints)
	outY := make([]float64, 0, maxPoints)
	for i := 0; i < maxPoints; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx < 0 {
			idx = 0
		}
		if idx > n-1 {
			idx = n - 1
		}
		outX = append(outX, xs[idx])
		outY = append(outY, ys[idx])
	}
	return outX, outY
}
