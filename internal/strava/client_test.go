package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"golang.org/x/oauth2"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}))
	c.BaseURL = srv.URL
	c.rateLimiter.minInterval = 0
	return c
}

func activityPage(n, startID int) []Activity {
	acts := make([]Activity, n)
	for i := range acts {
		acts[i] = Activity{
			ID:        int64(startID + i),
			Name:      fmt.Sprintf("Activity %d", startID+i),
			StartDate: fmt.Sprintf("2024-05-%02dT08:00:00Z", i+1),
		}
	}
	return acts
}

func TestListRecentActivitiesStopsOnShortPage(t *testing.T) {
	var pagesServed []int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pagesServed = append(pagesServed, page)

		switch page {
		case 1:
			json.NewEncoder(w).Encode(activityPage(PerPage, 1000))
		default:
			json.NewEncoder(w).Encode(activityPage(3, 2000))
		}
	})

	acts := c.ListRecentActivities(context.Background())
	if len(acts) != PerPage+3 {
		t.Errorf("got %d activities, want %d", len(acts), PerPage+3)
	}
	if len(pagesServed) != 2 {
		t.Errorf("pages requested = %v, want exactly 2 (short page stops pagination)", pagesServed)
	}
}

func TestListRecentActivitiesRespectsPageCap(t *testing.T) {
	pages := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		pages++
		json.NewEncoder(w).Encode(activityPage(PerPage, pages*10000))
	})

	acts := c.ListRecentActivities(context.Background())
	if pages != MaxPages {
		t.Errorf("pages requested = %d, want %d", pages, MaxPages)
	}
	if len(acts) != MaxPages*PerPage {
		t.Errorf("got %d activities, want %d", len(acts), MaxPages*PerPage)
	}
}

func TestListRecentActivitiesTreatsErrorPageAsEndOfData(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"server error"}`)
			return
		}
		json.NewEncoder(w).Encode(activityPage(PerPage, 1))
	})

	acts := c.ListRecentActivities(context.Background())
	if len(acts) != PerPage {
		t.Errorf("got %d activities, want first page kept after failed page", len(acts))
	}
}

func TestGetActivityStreams(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/activities/42/streams" {
			t.Errorf("path = %q, want /activities/42/streams", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("keys") != "latlng,altitude,time" || q.Get("key_by_type") != "true" {
			t.Errorf("unexpected stream query: %v", q)
		}
		w.Header().Set("X-RateLimit-Usage", "12,345")
		fmt.Fprint(w, `{
			"latlng": {"data": [[32.59, -116.47], [32.60, -116.46]]},
			"altitude": {"data": [800.0, 812.5]},
			"time": {"data": [0, 60]}
		}`)
	})

	streams, err := c.GetActivityStreams(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetActivityStreams() error: %v", err)
	}
	if got := len(streams.LatLngData()); got != 2 {
		t.Errorf("latlng samples = %d, want 2", got)
	}
	if got := streams.AltitudeData()[1]; got != 812.5 {
		t.Errorf("altitude[1] = %v, want 812.5", got)
	}

	shortRemaining, dailyRemaining := c.RateLimitStatus()
	if shortRemaining != 100-12 || dailyRemaining != 1000-345 {
		t.Errorf("RateLimitStatus() = (%d, %d), want header-derived budgets", shortRemaining, dailyRemaining)
	}
}
