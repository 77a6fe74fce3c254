package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/airlift/internal/shared"
)

const widgetPage = `<html><body>
<div class="ssiEncore_nowPlaying">
  <span class="ssiEncore_songArtist">Tame Impala</span>
  <span class="ssiEncore_songTitle">The Less I Know The Better</span>
</div>
</body></html>`

func newTestStation(t *testing.T, url string, timeout time.Duration) *StationService {
	t.Helper()

	src, err := NewStationService(StationOpts{
		Name:         "KCPR",
		URL:          url,
		ArtistMarker: "ssiEncore_songArtist",
		TitleMarker:  "ssiEncore_songTitle",
		FetchTimeout: timeout,
	})
	if err != nil {
		t.Fatalf("failed to create station source: %v", err)
	}
	return src
}

func TestStationService(t *testing.T) {
	t.Run("NewStationService Validation", func(t *testing.T) {
		_, err := NewStationService(StationOpts{ArtistMarker: "a", TitleMarker: "t"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for missing URL, got %v", err)
		}

		_, err = NewStationService(StationOpts{URL: "https://kcpr.org"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for missing markers, got %v", err)
		}
	})

	t.Run("NowPlaying Extracts Artist And Title", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(widgetPage))
		}))
		defer server.Close()

		src := newTestStation(t, server.URL, 2*time.Second)

		sample, err := src.NowPlaying(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if sample.Artist != "Tame Impala" {
			t.Errorf("expected artist 'Tame Impala', got %q", sample.Artist)
		}
		if sample.Title != "The Less I Know The Better" {
			t.Errorf("expected title 'The Less I Know The Better', got %q", sample.Title)
		}
		if sample.ObservedAt.IsZero() {
			t.Error("expected ObservedAt to be set")
		}
	})

	t.Run("NowPlaying Unescapes Entities", func(t *testing.T) {
		page := `<span class="ssiEncore_songArtist">Florence &amp; The Machine</span>
<span class="ssiEncore_songTitle">Dog Days Are Over</span>`

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(page))
		}))
		defer server.Close()

		src := newTestStation(t, server.URL, 2*time.Second)

		sample, err := src.NowPlaying(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sample.Artist != "Florence & The Machine" {
			t.Errorf("expected unescaped artist, got %q", sample.Artist)
		}
	})

	t.Run("NowPlaying Missing Fields", func(t *testing.T) {
		page := `<span class="ssiEncore_songArtist">Tame Impala</span>`

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(page))
		}))
		defer server.Close()

		src := newTestStation(t, server.URL, 2*time.Second)

		_, err := src.NowPlaying(context.Background())
		if !errors.Is(err, shared.ErrSourceUnavailable) {
			t.Errorf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("NowPlaying Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		src := newTestStation(t, server.URL, 2*time.Second)

		_, err := src.NowPlaying(context.Background())
		if !errors.Is(err, shared.ErrSourceUnavailable) {
			t.Errorf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("NowPlaying Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(250 * time.Millisecond)
			w.Write([]byte(widgetPage))
		}))
		defer server.Close()

		src := newTestStation(t, server.URL, 20*time.Millisecond)

		_, err := src.NowPlaying(context.Background())
		if !errors.Is(err, shared.ErrSourceTimeout) {
			t.Errorf("expected ErrSourceTimeout, got %v", err)
		}
	})
}
