package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/airlift/internal/matching"
	"github.com/desertthunder/airlift/internal/models"
	"github.com/desertthunder/airlift/internal/services"
	"github.com/desertthunder/airlift/internal/shared"
)

// Recorder persists curation history events. Implementations must tolerate
// being called once per decision for the lifetime of the process.
type Recorder interface {
	Record(event *models.Event) error
}

// Monitor is the reconciliation loop: it polls the now-playing source on a
// fixed cadence, detects song changes, resolves them against the catalog,
// and requests playlist additions through Membership.
//
// The last-accepted key and seeded flag are instance state constructed once
// per run; they are not persisted across restarts, so the first successful
// poll after startup seeds the state without triggering a resolution.
type Monitor struct {
	source     services.Source
	catalog    services.Catalog
	resolver   *Resolver
	membership *Membership
	logger     *log.Logger
	recorder   Recorder
	interval   time.Duration

	lastAccepted string
	seeded       bool
}

// MonitorOpts contains dependencies and settings for creating a Monitor.
type MonitorOpts struct {
	Source     services.Source
	Catalog    services.Catalog
	Resolver   *Resolver
	Membership *Membership
	Logger     *log.Logger
	Recorder   Recorder // optional history persistence
	Interval   time.Duration
}

// NewMonitor creates a Monitor with the provided dependencies.
func NewMonitor(opts MonitorOpts) *Monitor {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Interval <= 0 {
		opts.Interval = 60 * time.Second
	}

	return &Monitor{
		source:     opts.Source,
		catalog:    opts.Catalog,
		resolver:   opts.Resolver,
		membership: opts.Membership,
		logger:     opts.Logger,
		recorder:   opts.Recorder,
		interval:   opts.Interval,
	}
}

// Run executes reconciliation cycles until the context is cancelled.
//
// Exactly one cycle runs at a time; the interval is measured from the end of
// one cycle's processing to the start of the next, not wall-clock aligned.
// Cycle errors are logged and never terminate the loop; cancellation takes
// effect at the inter-cycle wait.
func (m *Monitor) Run(ctx context.Context, updates chan<- CycleUpdate) error {
	m.logger.Info("monitor started",
		"station", m.source.Name(),
		"catalog", m.catalog.Name(),
		"interval", m.interval,
	)

	for {
		m.Cycle(ctx, updates)

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.logger.Info("monitor stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Cycle performs one poll → compare → resolve → mutate → log pass.
func (m *Monitor) Cycle(ctx context.Context, updates chan<- CycleUpdate) {
	sample, err := m.source.NowPlaying(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrSourceTimeout) {
			m.logger.Warn("station fetch timed out, skipping cycle", "station", m.source.Name())
		} else {
			m.logger.Warn("station fetch failed, skipping cycle", "err", err)
		}
		m.send(updates, sourceFailedUpdate(err))
		return
	}

	key := matching.QueryKey(sample.Artist, sample.Title)

	if !m.seeded {
		m.lastAccepted = key
		m.seeded = true
		m.logger.Info("seeded now-playing state", "artist", sample.Artist, "title", sample.Title)
		m.send(updates, seededUpdate(sample))
		return
	}

	if key == m.lastAccepted {
		m.logger.Info("no new data")
		m.send(updates, noChangeUpdate())
		return
	}

	// Accept the new song before resolving so an unmatchable song is not
	// re-resolved every cycle for as long as it keeps playing.
	m.lastAccepted = key

	m.logger.Info("now playing", "artist", sample.Artist, "title", sample.Title)
	m.record(&models.Event{
		Kind:   models.EventSongDetected,
		Artist: sample.Artist,
		Title:  sample.Title,
	})

	res, err := m.resolver.Resolve(ctx, sample.Artist, sample.Title)
	if err != nil {
		m.logger.Error("catalog unavailable, skipping mutation this cycle", "err", err)
		m.record(&models.Event{
			Kind:   models.EventCatalogDown,
			Artist: sample.Artist,
			Title:  sample.Title,
			Detail: err.Error(),
		})
		m.send(updates, catalogDownUpdate(sample, err))
		return
	}

	if res == nil {
		m.logger.Warn("no catalog match", "artist", sample.Artist, "title", sample.Title)
		m.record(&models.Event{
			Kind:   models.EventNoMatch,
			Artist: sample.Artist,
			Title:  sample.Title,
		})
		m.send(updates, noMatchUpdate(sample))
		return
	}

	outcome, err := m.membership.Add(ctx, res.Track.ID)
	switch outcome {
	case TrackAdded:
		link := m.catalog.TrackLink(res.Track.ID)
		m.logger.Info("added track to playlist",
			"artist", sample.Artist,
			"title", sample.Title,
			"link", link,
		)
		m.record(&models.Event{
			Kind:        models.EventTrackAdded,
			Artist:      sample.Artist,
			Title:       sample.Title,
			TrackID:     res.Track.ID,
			Link:        link,
			ArtistScore: res.ArtistScore,
			TitleScore:  res.TitleScore,
		})
		m.send(updates, addedUpdate(sample, res, link))

	case AlreadyPresent:
		m.logger.Info("track already in playlist", "artist", sample.Artist, "title", sample.Title)
		m.record(&models.Event{
			Kind:        models.EventAlreadyPresent,
			Artist:      sample.Artist,
			Title:       sample.Title,
			TrackID:     res.Track.ID,
			ArtistScore: res.ArtistScore,
			TitleScore:  res.TitleScore,
		})
		m.send(updates, presentUpdate(sample, res))

	case RejectedEmptyID:
		m.logger.Warn("resolver produced an empty track id", "artist", sample.Artist, "title", sample.Title)
		m.record(&models.Event{
			Kind:   models.EventNoMatch,
			Artist: sample.Artist,
			Title:  sample.Title,
			Detail: shared.ErrEmptyTrackID.Error(),
		})
		m.send(updates, noMatchUpdate(sample))

	case RejectedTransport:
		m.logger.Error("playlist append failed, will retry on next sighting", "err", err)
		m.record(&models.Event{
			Kind:   models.EventCatalogDown,
			Artist: sample.Artist,
			Title:  sample.Title,
			Detail: err.Error(),
		})
		m.send(updates, appendFailedUpdate(sample, res, err))
	}
}

// send delivers a cycle update without blocking.
//
// Uses select with default so a slow or absent consumer never stalls the loop.
func (m *Monitor) send(updates chan<- CycleUpdate, update CycleUpdate) {
	if updates == nil {
		return
	}
	select {
	case updates <- update:
	default:
	}
}

// record persists a history event when a recorder is configured.
func (m *Monitor) record(event *models.Event) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Record(event); err != nil {
		m.logger.Warn("failed to record history event", "kind", event.Kind, "err", err)
	}
}
