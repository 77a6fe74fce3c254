package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/airlift/internal/matching"
	"github.com/desertthunder/airlift/internal/models"
	"github.com/desertthunder/airlift/internal/services"
	"github.com/desertthunder/airlift/internal/shared"
)

// Resolution is a successful match of a scraped (artist, title) pair against
// a catalog track, with the similarity scores that accepted it.
type Resolution struct {
	Track       models.Track
	ArtistScore float64
	TitleScore  float64
}

// Resolver resolves free-text now-playing metadata to catalog track IDs
// using fuzzy search results gated by a similarity threshold.
type Resolver struct {
	catalog   services.Catalog
	logger    *log.Logger
	threshold float64
	limit     int
}

// NewResolver creates a Resolver over the given catalog.
//
// threshold is the minimum acceptable similarity in [0,1] for both the
// artist and the title independently; 0 disables verification entirely.
// limit bounds the candidate list requested from the catalog.
func NewResolver(catalog services.Catalog, logger *log.Logger, threshold float64, limit int) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if limit <= 0 {
		limit = 5
	}

	return &Resolver{
		catalog:   catalog,
		logger:    logger,
		threshold: threshold,
		limit:     limit,
	}
}

// Resolve searches the catalog for the given artist/title pair and returns
// the accepted match, or (nil, nil) when no candidate clears the threshold.
//
// Only the top candidate is scored; covers or live versions ranked first can
// therefore shadow the studio recording. A transport or auth failure returns
// an error wrapping [shared.ErrCatalogUnavailable] so callers never mistake
// "couldn't ask" for "not in catalog."
func (r *Resolver) Resolve(ctx context.Context, artist, title string) (*Resolution, error) {
	query := matching.SearchQuery(artist, title)

	candidates, err := r.catalog.SearchTracks(ctx, query, r.limit)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	top := candidates[0]

	if r.threshold == 0.0 {
		// Caller opted out of verification.
		return &Resolution{Track: top, ArtistScore: 1.0, TitleScore: 1.0}, nil
	}

	artistScore := matching.Ratio(matching.Clean(top.Artist), matching.Clean(artist))
	titleScore := matching.Ratio(matching.Clean(top.Title), matching.Clean(title))

	if artistScore < r.threshold || titleScore < r.threshold {
		return nil, nil
	}

	r.logger.Info("match accepted",
		"artist_similarity", shared.FormatPercent(artistScore),
		"title_similarity", shared.FormatPercent(titleScore),
		"track", top.Title,
		"by", top.Artist,
	)

	return &Resolution{
		Track:       top,
		ArtistScore: artistScore,
		TitleScore:  titleScore,
	}, nil
}
