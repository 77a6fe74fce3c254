package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/airlift/internal/services"
	"github.com/desertthunder/airlift/internal/shared"
	"golang.org/x/time/rate"
)

// Spotify rejects appends of 100 or more items per call.
const appendChunkSize = 99

// Playlist item pages arrive 100 at a time.
const membershipPageSize = 100

// AddOutcome describes the result of requesting a playlist addition.
type AddOutcome int

const (
	TrackAdded AddOutcome = iota
	AlreadyPresent
	RejectedEmptyID
	RejectedTransport
)

func (o AddOutcome) String() string {
	switch o {
	case TrackAdded:
		return "added"
	case AlreadyPresent:
		return "already_present"
	case RejectedEmptyID:
		return "rejected_empty_id"
	case RejectedTransport:
		return "rejected_transport"
	default:
		return ""
	}
}

// ChunkResult reports the outcome of one chunk of a batch append.
type ChunkResult struct {
	Offset int      // Index of the chunk's first track in the filtered submission, after known and empty IDs are dropped
	IDs    []string // Track IDs submitted in this chunk
	Err    error    // nil on success
}

// Membership maintains the in-memory set of track IDs already in the target
// playlist and is the single entry point for requesting additions.
//
// The set is owned exclusively by this instance and written by exactly one
// caller (the monitor loop), so it is unguarded; parallel pollers would need
// mutual exclusion here.
type Membership struct {
	catalog    services.Catalog
	playlistID string
	ids        map[string]struct{}
	limiter    *rate.Limiter
}

// NewMembership creates a Membership for the given playlist.
//
// appendRate bounds batch append calls per second; <= 0 selects a default
// that stays well under the catalog's rate limits.
func NewMembership(catalog services.Catalog, playlistID string, appendRate float64) *Membership {
	if appendRate <= 0 {
		appendRate = 5.0
	}

	return &Membership{
		catalog:    catalog,
		playlistID: playlistID,
		ids:        make(map[string]struct{}),
		limiter:    rate.NewLimiter(rate.Limit(appendRate), 1),
	}
}

// Load materializes the full existing playlist membership by paging through
// all playlist items. Called once at startup; a transport failure here is
// fatal to startup and wraps [shared.ErrCatalogUnavailable].
func (m *Membership) Load(ctx context.Context) error {
	offset := 0

	for {
		items, next, err := m.catalog.PlaylistItems(ctx, m.playlistID, offset)
		if err != nil {
			return fmt.Errorf("failed to enumerate playlist %s: %w", m.playlistID, err)
		}

		for _, item := range items {
			if item.ID == "" {
				// Local files and removed tracks surface with blank IDs.
				continue
			}
			m.ids[item.ID] = struct{}{}
		}

		if !next {
			return nil
		}
		offset += membershipPageSize
	}
}

// Size returns the number of known member track IDs.
func (m *Membership) Size() int {
	return len(m.ids)
}

// Contains reports whether the track ID is already a playlist member.
func (m *Membership) Contains(trackID string) bool {
	_, ok := m.ids[trackID]
	return ok
}

// Add requests an at-most-once playlist addition for a single track ID.
//
// Already-known IDs short-circuit without a remote call, keeping the local
// set authoritative between polls. The set is only updated after a
// successful remote append, so a failed append can be retried the next time
// the same song is sighted.
func (m *Membership) Add(ctx context.Context, trackID string) (AddOutcome, error) {
	if trackID == "" {
		return RejectedEmptyID, shared.ErrEmptyTrackID
	}

	if m.Contains(trackID) {
		return AlreadyPresent, nil
	}

	if err := m.catalog.AppendTracks(ctx, m.playlistID, []string{trackID}); err != nil {
		return RejectedTransport, err
	}

	m.ids[trackID] = struct{}{}
	return TrackAdded, nil
}

// AddAll requests additions for an ordered sequence of track IDs, splitting
// the not-yet-member remainder into chunks of at most 99 per append call.
//
// A failed chunk is reported in its ChunkResult and does not block
// submission of subsequent chunks. Chunk submission is rate limited.
func (m *Membership) AddAll(ctx context.Context, trackIDs []string) []ChunkResult {
	pending := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		if id == "" || m.Contains(id) {
			continue
		}
		pending = append(pending, id)
	}

	var results []ChunkResult

	for offset := 0; offset < len(pending); offset += appendChunkSize {
		end := offset + appendChunkSize
		if end > len(pending) {
			end = len(pending)
		}
		chunk := pending[offset:end]

		result := ChunkResult{Offset: offset, IDs: chunk}

		if err := m.limiter.Wait(ctx); err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		if err := m.catalog.AppendTracks(ctx, m.playlistID, chunk); err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		for _, id := range chunk {
			m.ids[id] = struct{}{}
		}
		results = append(results, result)
	}

	return results
}
