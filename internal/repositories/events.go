package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/airlift/internal/models"
	"github.com/desertthunder/airlift/internal/shared"
)

// EventRepository persists curation history events.
//
// Implements tasks.Recorder. Rows are append-only; there is no update or
// delete path.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository with the given database connection
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// NextSequence atomically increments and returns the next event sequence number.
//
// Sequence numbers provide human-readable ordering within a single history
// database; they are not exposed as identifiers.
func (r *EventRepository) NextSequence() (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE events_sequence SET value = value + 1 WHERE id = 1"); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow("SELECT value FROM events_sequence WHERE id = 1").Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// Record inserts a curation event with generated ID, sequence, and timestamp.
func (r *EventRepository) Record(event *models.Event) error {
	sequence, err := r.NextSequence()
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	event.ID = shared.GenerateID()
	event.Sequence = sequence
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO events (
			id, sequence, kind, artist, title, track_id, link,
			artist_score, title_score, detail, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var trackID any = event.TrackID
	if trackID == "" {
		trackID = nil
	}

	var link any = event.Link
	if link == "" {
		link = nil
	}

	var detail any = event.Detail
	if detail == "" {
		detail = nil
	}

	_, err = r.db.Exec(query,
		event.ID,
		event.Sequence,
		string(event.Kind),
		event.Artist,
		event.Title,
		trackID,
		link,
		event.ArtistScore,
		event.TitleScore,
		detail,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// Recent retrieves the most recent events, newest first, up to limit.
func (r *EventRepository) Recent(limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, sequence, kind, artist, title, track_id, link,
			artist_score, title_score, detail, created_at
		FROM events
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ByKind retrieves the most recent events of one kind, newest first.
func (r *EventRepository) ByKind(kind models.EventKind, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, sequence, kind, artist, title, track_id, link,
			artist_score, title_score, detail, created_at
		FROM events
		WHERE kind = ?
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Count returns the total number of recorded events.
func (r *EventRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	var events []models.Event

	for rows.Next() {
		var event models.Event
		var kind string
		var trackID, link, detail sql.NullString

		err := rows.Scan(
			&event.ID,
			&event.Sequence,
			&kind,
			&event.Artist,
			&event.Title,
			&trackID,
			&link,
			&event.ArtistScore,
			&event.TitleScore,
			&detail,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		event.Kind = models.EventKind(kind)
		event.TrackID = trackID.String
		event.Link = link.String
		event.Detail = detail.String

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return events, nil
}
