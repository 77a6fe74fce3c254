package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func newTestHandler(state string) *OAuthHandler {
	config := &oauth2.Config{
		ClientID:     "test_client",
		ClientSecret: "test_secret",
		RedirectURL:  "http://localhost:8080/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://example.com/authorize",
			TokenURL: "https://example.com/token",
		},
	}
	return NewOAuthHandler(config, state)
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Rejects Invalid State", func(t *testing.T) {
		handler := newTestHandler("expected_state")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=wrong_state&code=abc", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		select {
		case result := <-handler.Result():
			if result.Error() == nil {
				t.Error("expected an error result")
			}
			if !strings.Contains(result.Error().Error(), "state") {
				t.Errorf("expected state error, got %v", result.Error())
			}
		case <-time.After(time.Second):
			t.Fatal("expected a result to be delivered")
		}
	})

	t.Run("Reports Authorization Denial", func(t *testing.T) {
		handler := newTestHandler("s")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=s&error=access_denied&error_description=User+denied", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected access_denied in error, got %v", result.Error())
		}
	})

	t.Run("Exchanges Code For Token", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "test_token", "token_type": "Bearer", "expires_in": 3600}`))
		}))
		defer tokenServer.Close()

		handler := newTestHandler("s")
		handler.config.Endpoint.TokenURL = tokenServer.URL

		req := httptest.NewRequest(http.MethodGet, "/callback?state=s&code=auth_code", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected success page")
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token.AccessToken != "test_token" {
			t.Errorf("unexpected access token: %s", result.Token.AccessToken)
		}
	})

	t.Run("Second Callback Is Rejected", func(t *testing.T) {
		handler := newTestHandler("expected_state")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for duplicate callback, got %d", second.Code)
		}
		if !strings.Contains(second.Body.String(), "already processed") {
			t.Errorf("expected duplicate-callback message, got %q", second.Body.String())
		}
	})
}
