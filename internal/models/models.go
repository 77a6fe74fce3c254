package models

import (
	"fmt"
	"time"
)

// Sample is one now-playing observation scraped from the station feed.
//
// Samples are immutable; the monitor keeps only the key of the most recent
// accepted sample, never the sample itself.
type Sample struct {
	Artist     string
	Title      string
	ObservedAt time.Time
}

// Track represents a catalog track.
type Track struct {
	ID     string
	Title  string
	Artist string
	Album  string
	URI    string
}

// Playlist represents a catalog playlist.
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
	Public      bool
}

// EventKind enumerates the curation decisions recorded per reconciliation cycle.
type EventKind string

const (
	EventSongDetected   EventKind = "song_detected"
	EventTrackAdded     EventKind = "track_added"
	EventAlreadyPresent EventKind = "already_present"
	EventNoMatch        EventKind = "no_match"
	EventCatalogDown    EventKind = "catalog_unavailable"
)

// Event is one append-only curation history record.
//
// Events carry enough detail (artist, title, similarity scores, resulting
// track link) to reconstruct the day's playlist decisions after the fact.
type Event struct {
	ID          string
	Sequence    int
	Kind        EventKind
	Artist      string
	Title       string
	TrackID     string
	Link        string
	ArtistScore float64
	TitleScore  float64
	Detail      string
	CreatedAt   time.Time
}

// Validate checks that the event's data is valid.
func (e *Event) Validate() error {
	switch e.Kind {
	case EventSongDetected, EventTrackAdded, EventAlreadyPresent, EventNoMatch, EventCatalogDown:
	default:
		return fmt.Errorf("unknown event kind: %q", e.Kind)
	}

	if e.Artist == "" && e.Title == "" {
		return fmt.Errorf("event requires an artist or title")
	}

	if e.Kind == EventTrackAdded && e.TrackID == "" {
		return fmt.Errorf("track_added event requires a track id")
	}

	return nil
}
