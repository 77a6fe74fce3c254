// Station now-playing widget implementation of [Source]
//
// Fetches the station homepage over HTTP and extracts the artist/title text
// from the now-playing widget markup by marker class name.
package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/desertthunder/airlift/internal/models"
	"github.com/desertthunder/airlift/internal/shared"
)

// StationService implements the Source interface by scraping the station's
// now-playing widget markup.
type StationService struct {
	name         string
	url          string
	fetchTimeout time.Duration
	httpClient   *http.Client

	artistPattern *regexp.Regexp
	titlePattern  *regexp.Regexp
}

// StationOpts configures a StationService.
type StationOpts struct {
	Name         string        // Station display name (e.g. call sign)
	URL          string        // Page carrying the now-playing widget
	ArtistMarker string        // CSS class wrapping the artist text
	TitleMarker  string        // CSS class wrapping the title text
	FetchTimeout time.Duration // Bounded wait per fetch (default 10s)
	HTTPClient   *http.Client
}

// NewStationService creates a now-playing source for the given station page.
func NewStationService(opts StationOpts) (*StationService, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("%w: station url is required", shared.ErrInvalidConfig)
	}
	if opts.ArtistMarker == "" || opts.TitleMarker == "" {
		return nil, fmt.Errorf("%w: artist and title markers are required", shared.ErrInvalidConfig)
	}
	if opts.Name == "" {
		opts.Name = opts.URL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &StationService{
		name:          opts.Name,
		url:           opts.URL,
		fetchTimeout:  opts.FetchTimeout,
		httpClient:    opts.HTTPClient,
		artistPattern: markerPattern(opts.ArtistMarker),
		titlePattern:  markerPattern(opts.TitleMarker),
	}, nil
}

// markerPattern matches the inner text of the first element carrying the
// marker class, e.g. <div class="ssiEncore_songArtist">Tame Impala</div>.
func markerPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(`class="[^"]*` + regexp.QuoteMeta(marker) + `[^"]*"[^>]*>([^<]*)<`)
}

// Name returns the station display name.
func (s *StationService) Name() string {
	return s.name
}

// NowPlaying fetches the station page and extracts the current artist/title.
//
// The fetch is bounded by the configured timeout independent of the caller's
// polling interval; a deadline hit wraps [shared.ErrSourceTimeout]. Empty
// artist or title fields are treated as a failed fetch, never returned as a
// partially-populated sample.
func (s *StationService) NowPlaying(ctx context.Context) (*models.Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", shared.ErrSourceTimeout, s.url)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrSourceUnavailable, resp.StatusCode)
	}

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", shared.ErrSourceTimeout, s.url)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}

	artist := s.extract(s.artistPattern, page)
	title := s.extract(s.titlePattern, page)

	if artist == "" || title == "" {
		return nil, fmt.Errorf("%w: now-playing widget missing artist or title", shared.ErrSourceUnavailable)
	}

	return &models.Sample{
		Artist:     artist,
		Title:      title,
		ObservedAt: time.Now(),
	}, nil
}

func (s *StationService) extract(pattern *regexp.Regexp, page []byte) string {
	match := pattern.FindSubmatch(page)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(string(match[1])))
}
