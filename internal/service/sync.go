// Package service orchestrates one sync run: token refresh, activity
// listing, trail filtering, stream processing, track assembly and output
// persistence.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/guptarohit/asciigraph"

	"pcttracker/internal/auth"
	"pcttracker/internal/state"
	"pcttracker/internal/store"
	"pcttracker/internal/strava"
	"pcttracker/internal/track"
	"pcttracker/internal/trail"
)

// Options holds the run's output targets and toggles.
type Options struct {
	TrackPath  string
	LatestPath string

	// Preview renders the newest activity's elevation profile to stdout
	// after a successful sync.
	Preview bool
}

// Service runs the sync pipeline.
type Service struct {
	tokens *auth.TokenSource
	client *strava.Client
	trail  *trail.Trail
	state  *state.Store
	cache  *store.Cache // optional
	opts   Options
}

// New creates a sync service. cache may be nil to disable stream caching.
func New(tokens *auth.TokenSource, client *strava.Client, tr *trail.Trail, st *state.Store, cache *store.Cache, opts Options) *Service {
	return &Service{
		tokens: tokens,
		client: client,
		trail:  tr,
		state:  st,
		cache:  cache,
		opts:   opts,
	}
}

// Result summarizes one sync run.
type Result struct {
	Fetched         int
	Kept            int
	SkippedOffTrail int
	Errors          []error
}

// Run performs one full sync. Only credential failures abort the run; every
// other problem degrades to a logged skip. The output collection is rebuilt
// from scratch each run, so re-running against identical provider responses
// produces byte-identical files.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()[:8]
	log.Printf("sync %s: starting", runID)

	// Refresh eagerly so an invalid credential aborts before any output or
	// state is touched. Rotation is persisted inside the token source.
	if _, err := s.tokens.Token(); err != nil {
		return nil, err
	}

	activities := s.client.ListRecentActivities(ctx)
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].StartDate < activities[j].StartDate
	})

	res := &Result{Fetched: len(activities)}
	var builder track.Builder
	var keptIDs []int64

	for _, a := range activities {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		// Cheap proximity check on the start coordinate avoids the stream
		// fetch for activities nowhere near the trail. Activities without a
		// start coordinate fall through to stream processing.
		if a.HasStart() && !s.trail.Near(a.StartLatLng[0], a.StartLatLng[1]) {
			res.SkippedOffTrail++
			continue
		}

		streams, err := s.fetchStreams(ctx, a.ID)
		if err != nil {
			log.Printf("sync %s: skipping activity %d (%s): %v", runID, a.ID, a.Name, err)
			res.Errors = append(res.Errors, fmt.Errorf("activity %d: %w", a.ID, err))
			continue
		}

		coords, prof, ok := track.ProcessStreams(streams.LatLngData(), streams.AltitudeData(), a.TotalElevationGain)
		if !ok {
			continue
		}

		builder.Add(newFeature(a, coords, prof))
		keptIDs = append(keptIDs, a.ID)
	}

	collection, latest := builder.Build()
	res.Kept = len(collection.Features)

	if err := writeJSON(s.opts.TrackPath, collection); err != nil {
		return res, err
	}
	if latest != nil {
		if err := writeJSON(s.opts.LatestPath, latest); err != nil {
			return res, err
		}
	}

	if err := s.state.SetSeenIDs(keptIDs); err != nil {
		return res, fmt.Errorf("saving seen ids: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Prune(keptIDs); err != nil {
			log.Printf("sync %s: pruning stream cache: %v", runID, err)
		}
	}

	log.Printf("sync %s: wrote %d trail activities to %s (%d off-trail skipped)",
		runID, res.Kept, s.opts.TrackPath, res.SkippedOffTrail)
	if latest == nil {
		log.Printf("sync %s: no GPS streams found; check Strava privacy and scope settings", runID)
	}

	if s.opts.Preview {
		previewProfile(collection)
	}

	return res, nil
}

// fetchStreams returns the activity's streams, via the cache when possible.
// A corrupt cache entry is ignored and refetched.
func (s *Service) fetchStreams(ctx context.Context, activityID int64) (*strava.Streams, error) {
	if s.cache != nil {
		if payload, ok, err := s.cache.Get(activityID); err == nil && ok {
			var cached strava.Streams
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	streams, err := s.client.GetActivityStreams(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(streams); err == nil {
			if err := s.cache.Put(activityID, payload); err != nil {
				log.Printf("caching streams for activity %d: %v", activityID, err)
			}
		}
	}

	return streams, nil
}

func newFeature(a strava.Activity, coords [][]float64, prof track.Profile) track.Feature {
	return track.Feature{
		Type: "Feature",
		Properties: track.Properties{
			StravaID:       a.ID,
			Name:           a.Name,
			StartDate:      a.StartDate,
			DistanceM:      a.Distance,
			MovingTimeS:    a.MovingTime,
			Type:           a.Type,
			ElevationGainM: prof.GainM,
			ProfileDistM:   prof.DistM,
			ProfileElevM:   prof.ElevM,
		},
		Geometry: track.Geometry{Type: "LineString", Coordinates: coords},
	}
}

// previewProfile prints the newest activity's elevation profile, if any
// activity has one.
func previewProfile(fc track.FeatureCollection) {
	for i := len(fc.Features) - 1; i >= 0; i-- {
		p := fc.Features[i].Properties
		if len(p.ProfileElevM) < 2 {
			continue
		}
		caption := fmt.Sprintf("%s, elevation (m) over %.1f km", p.Name, p.DistanceM/1000)
		fmt.Println(asciigraph.Plot(p.ProfileElevM, asciigraph.Height(10), asciigraph.Caption(caption)))
		return
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
