package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func tokenServer(t *testing.T, handler func(r *http.Request) (int, map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing token request form: %v", err)
		}
		status, body := handler(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenRefreshGrant(t *testing.T) {
	srv := tokenServer(t, func(r *http.Request) (int, map[string]any) {
		if got := r.FormValue("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		if got := r.FormValue("refresh_token"); got != "seed-refresh" {
			t.Errorf("refresh_token = %q, want seed-refresh", got)
		}
		if got := r.FormValue("client_id"); got != "client" {
			t.Errorf("client_id = %q, want client", got)
		}
		return http.StatusOK, map[string]any{
			"access_token":  "access-1",
			"refresh_token": "rotated-refresh",
			"expires_in":    3600,
		}
	})

	var persisted string
	ts := NewTokenSource(Config{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     srv.URL,
	}, "seed-refresh", func(newToken string) error {
		persisted = newToken
		return nil
	})

	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if tok.AccessToken != "access-1" {
		t.Errorf("AccessToken = %q, want access-1", tok.AccessToken)
	}
	if persisted != "rotated-refresh" {
		t.Errorf("persisted refresh token = %q, want rotated-refresh", persisted)
	}
}

func TestTokenReusedWhileValid(t *testing.T) {
	exchanges := 0
	srv := tokenServer(t, func(r *http.Request) (int, map[string]any) {
		exchanges++
		return http.StatusOK, map[string]any{
			"access_token": "access-1",
			"expires_in":   3600,
		}
	})

	ts := NewTokenSource(Config{ClientID: "c", ClientSecret: "s", TokenURL: srv.URL}, "seed", nil)

	for i := 0; i < 3; i++ {
		if _, err := ts.Token(); err != nil {
			t.Fatalf("Token() call %d error: %v", i, err)
		}
	}
	if exchanges != 1 {
		t.Errorf("token exchanges = %d, want 1 (valid token should be reused)", exchanges)
	}
}

func TestTokenRefreshFailure(t *testing.T) {
	srv := tokenServer(t, func(r *http.Request) (int, map[string]any) {
		return http.StatusUnauthorized, map[string]any{"message": "invalid refresh token"}
	})

	ts := NewTokenSource(Config{ClientID: "c", ClientSecret: "s", TokenURL: srv.URL}, "bad", nil)
	if _, err := ts.Token(); err == nil {
		t.Fatal("Token() error = nil, want failure on 401 response")
	}
}
