package trail

import "testing"

func TestEveryWaypointIsNear(t *testing.T) {
	tr := PCT()
	for i, w := range tr.Waypoints() {
		if !tr.Near(w[0], w[1]) {
			t.Errorf("waypoint %d (%v, %v) not near its own trail", i, w[0], w[1])
		}
	}
}

func TestFarPointsAreNotNear(t *testing.T) {
	tr := PCT()
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"las vegas", 36.17, -115.14},
		{"denver", 39.74, -104.99},
		{"honolulu", 21.31, -157.86},
		{"pacific offshore", 40.00, -130.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tr.Near(tt.lat, tt.lon) {
				t.Errorf("Near(%v, %v) = true, want false", tt.lat, tt.lon)
			}
		})
	}
}

func TestProximityThreshold(t *testing.T) {
	// Single waypoint at the origin; along the equator one degree of
	// longitude is ~111.2 km, so 15 km is ~0.1349 degrees.
	tr := New([][2]float64{{0, 0}}, 15000)

	tests := []struct {
		name string
		lon  float64
		want bool
	}{
		{"at waypoint", 0, true},
		{"well inside", 0.05, true},
		{"just inside", 0.134, true},
		{"just outside", 0.136, false},
		{"well outside", 0.50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Near(0, tt.lon); got != tt.want {
				t.Errorf("Near(0, %v) = %v, want %v", tt.lon, got, tt.want)
			}
		})
	}
}
