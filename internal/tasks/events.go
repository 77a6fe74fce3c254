package tasks

import (
	"fmt"

	"github.com/desertthunder/airlift/internal/models"
)

// CycleUpdate represents the outcome of one reconciliation cycle.
//
// Used to send real-time updates to the CLI layer for display.
type CycleUpdate struct {
	Outcome     Outcome // Cycle outcome
	Artist      string  // Scraped artist, when a sample was obtained
	Title       string  // Scraped title, when a sample was obtained
	TrackID     string  // Resolved catalog track ID, when matched
	Link        string  // Public track link, when added
	ArtistScore float64 // Artist similarity, when matched
	TitleScore  float64 // Title similarity, when matched
	Message     string  // Human-readable message for display
}

// Cycle outcome enumeration
type Outcome int

const (
	Seeded Outcome = iota
	NoChange
	SourceFailed
	SongDetected
	Added
	Present
	NoMatch
	CatalogDown
	AppendFailed
)

func (o Outcome) String() string {
	switch o {
	case Seeded:
		return "seeded"
	case NoChange:
		return "no_change"
	case SourceFailed:
		return "source_failed"
	case SongDetected:
		return "song_detected"
	case Added:
		return "added"
	case Present:
		return "already_present"
	case NoMatch:
		return "no_match"
	case CatalogDown:
		return "catalog_unavailable"
	case AppendFailed:
		return "append_failed"
	default:
		return ""
	}
}

func seededUpdate(sample *models.Sample) CycleUpdate {
	return CycleUpdate{
		Outcome: Seeded,
		Artist:  sample.Artist,
		Title:   sample.Title,
		Message: fmt.Sprintf("Seeded with current song: %s - %s", sample.Artist, sample.Title),
	}
}

func noChangeUpdate() CycleUpdate {
	return CycleUpdate{
		Outcome: NoChange,
		Message: "No new data...",
	}
}

func sourceFailedUpdate(err error) CycleUpdate {
	return CycleUpdate{
		Outcome: SourceFailed,
		Message: fmt.Sprintf("Station fetch failed: %v", err),
	}
}

func addedUpdate(sample *models.Sample, res *Resolution, link string) CycleUpdate {
	return CycleUpdate{
		Outcome:     Added,
		Artist:      sample.Artist,
		Title:       sample.Title,
		TrackID:     res.Track.ID,
		Link:        link,
		ArtistScore: res.ArtistScore,
		TitleScore:  res.TitleScore,
		Message:     fmt.Sprintf("Added to playlist: %s - %s (%s)", sample.Artist, sample.Title, link),
	}
}

func presentUpdate(sample *models.Sample, res *Resolution) CycleUpdate {
	return CycleUpdate{
		Outcome:     Present,
		Artist:      sample.Artist,
		Title:       sample.Title,
		TrackID:     res.Track.ID,
		ArtistScore: res.ArtistScore,
		TitleScore:  res.TitleScore,
		Message:     fmt.Sprintf("Track already in playlist: %s - %s", sample.Artist, sample.Title),
	}
}

func noMatchUpdate(sample *models.Sample) CycleUpdate {
	return CycleUpdate{
		Outcome: NoMatch,
		Artist:  sample.Artist,
		Title:   sample.Title,
		Message: fmt.Sprintf("No catalog match: %s - %s", sample.Artist, sample.Title),
	}
}

func catalogDownUpdate(sample *models.Sample, err error) CycleUpdate {
	return CycleUpdate{
		Outcome: CatalogDown,
		Artist:  sample.Artist,
		Title:   sample.Title,
		Message: fmt.Sprintf("Catalog unavailable: %v", err),
	}
}

func appendFailedUpdate(sample *models.Sample, res *Resolution, err error) CycleUpdate {
	return CycleUpdate{
		Outcome:     AppendFailed,
		Artist:      sample.Artist,
		Title:       sample.Title,
		TrackID:     res.Track.ID,
		ArtistScore: res.ArtistScore,
		TitleScore:  res.TitleScore,
		Message:     fmt.Sprintf("Playlist append failed: %v", err),
	}
}
