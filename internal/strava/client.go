package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the Strava v3 API root.
	DefaultBaseURL = "https://www.strava.com/api/v3"

	// PerPage is the listing page size.
	PerPage = 50

	// MaxPages caps the recency window. This is a hard cap independent of
	// actual history length: the sync covers recent activity, not backfill.
	MaxPages = 5
)

// Client is a Strava API client.
type Client struct {
	// BaseURL may be overridden for tests.
	BaseURL string

	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a Strava API client authenticated by the token source.
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
	}
}

// ListActivities fetches one page of the athlete's activities.
func (c *Client) ListActivities(ctx context.Context, page, perPage int) ([]Activity, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))

	resp, err := c.get(ctx, "/athlete/activities", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}

	return activities, nil
}

// ListRecentActivities pages through the athlete's recent activities, at most
// MaxPages pages of PerPage items. Pagination stops early on a short or empty
// page. A failed or malformed page is logged and treated as end of data, so a
// partial listing still produces a sync.
func (c *Client) ListRecentActivities(ctx context.Context) []Activity {
	var all []Activity
	for page := 1; page <= MaxPages; page++ {
		batch, err := c.ListActivities(ctx, page, PerPage)
		if err != nil {
			log.Printf("activity listing stopped at page %d: %v", page, err)
			break
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < PerPage {
			break
		}
	}
	return all
}

// GetActivityStreams fetches the GPS, altitude and time streams for an
// activity, keyed by stream type.
func (c *Client) GetActivityStreams(ctx context.Context, activityID int64) (*Streams, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("keys", "latlng,altitude,time")
	params.Set("key_by_type", "true")

	path := fmt.Sprintf("/activities/%d/streams", activityID)
	resp, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var streams Streams
	if err := json.NewDecoder(resp.Body).Decode(&streams); err != nil {
		return nil, fmt.Errorf("decoding streams: %w", err)
	}

	return &streams, nil
}

// RateLimitStatus returns the remaining request budgets.
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
