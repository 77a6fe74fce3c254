package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/airlift/internal/models"
	"github.com/desertthunder/airlift/internal/shared"
	tu "github.com/desertthunder/airlift/internal/testing"
)

func newTestMonitor(source *tu.MockSource, catalog *tu.MockCatalog, recorder Recorder, threshold float64) (*Monitor, *Membership) {
	membership := NewMembership(catalog, "p1", 100)
	resolver := NewResolver(catalog, nil, threshold, 5)

	monitor := NewMonitor(MonitorOpts{
		Source:     source,
		Catalog:    catalog,
		Resolver:   resolver,
		Membership: membership,
		Recorder:   recorder,
	})
	return monitor, membership
}

func TestMonitorCycle(t *testing.T) {
	t.Run("First Poll Seeds Without Resolution", func(t *testing.T) {
		source := &tu.MockSource{Samples: []*models.Sample{tu.Playing("Tame Impala", "Elephant")}}
		catalog := &tu.MockCatalog{}

		monitor, _ := newTestMonitor(source, catalog, nil, 0.30)

		monitor.Cycle(context.Background(), nil)

		if catalog.SearchCalls != 0 {
			t.Errorf("seeding cycle must not search, got %d calls", catalog.SearchCalls)
		}
		if catalog.AppendCalls != 0 {
			t.Errorf("seeding cycle must not append, got %d calls", catalog.AppendCalls)
		}
	})

	t.Run("Resolution Fires Once Per Song Change", func(t *testing.T) {
		// A, A, A, B, B, A: two changes after the seed.
		source := &tu.MockSource{Samples: []*models.Sample{
			tu.Playing("Artist A", "Song A"),
			tu.Playing("Artist A", "Song A"),
			tu.Playing("Artist A", "Song A"),
			tu.Playing("Artist B", "Song B"),
			tu.Playing("Artist B", "Song B"),
			tu.Playing("Artist A", "Song A"),
		}}
		catalog := &tu.MockCatalog{}

		monitor, _ := newTestMonitor(source, catalog, nil, 0.30)

		for range source.Samples {
			monitor.Cycle(context.Background(), nil)
		}

		if catalog.SearchCalls != 2 {
			t.Errorf("expected 2 resolutions, got %d", catalog.SearchCalls)
		}
	})

	t.Run("Match Adds Track And Records Events", func(t *testing.T) {
		source := &tu.MockSource{Samples: []*models.Sample{
			tu.Playing("Interpol", "Evil"),
			tu.Playing("Tame Impala", "Elephant"),
			tu.Playing("Tame Impala", "Elephant"),
		}}
		catalog := &tu.MockCatalog{
			SearchResults: map[string][]models.Track{
				"tame impala elephant": {
					{ID: "elephant1", Title: "Elephant", Artist: "Tame Impala"},
				},
			},
		}
		recorder := &tu.MockRecorder{}

		monitor, membership := newTestMonitor(source, catalog, recorder, 0.30)

		monitor.Cycle(context.Background(), nil) // seeds Interpol
		monitor.Cycle(context.Background(), nil) // detects and adds Elephant
		monitor.Cycle(context.Background(), nil) // same song, no work

		if !membership.Contains("elephant1") {
			t.Error("expected elephant1 to be added to the playlist")
		}
		if catalog.AppendCalls != 1 {
			t.Errorf("expected exactly 1 append, got %d", catalog.AppendCalls)
		}
		if catalog.SearchCalls != 1 {
			t.Errorf("expected exactly 1 search, got %d", catalog.SearchCalls)
		}

		if len(recorder.Events) != 2 {
			t.Fatalf("expected 2 events (detected, added), got %d", len(recorder.Events))
		}
		if recorder.Events[0].Kind != models.EventSongDetected {
			t.Errorf("expected first event %s, got %s", models.EventSongDetected, recorder.Events[0].Kind)
		}
		if recorder.Events[1].Kind != models.EventTrackAdded {
			t.Errorf("expected second event %s, got %s", models.EventTrackAdded, recorder.Events[1].Kind)
		}
		if recorder.Events[1].Link != "https://open.spotify.com/track/elephant1" {
			t.Errorf("unexpected link: %s", recorder.Events[1].Link)
		}
	})

	t.Run("Already Present Track Is Not Re-Added", func(t *testing.T) {
		source := &tu.MockSource{Samples: []*models.Sample{
			tu.Playing("Interpol", "Evil"),
			tu.Playing("Tame Impala", "Elephant"),
		}}
		catalog := &tu.MockCatalog{
			Pages: [][]models.Track{{{ID: "elephant1"}}},
			SearchResults: map[string][]models.Track{
				"tame impala elephant": {
					{ID: "elephant1", Title: "Elephant", Artist: "Tame Impala"},
				},
			},
		}
		recorder := &tu.MockRecorder{}

		monitor, membership := newTestMonitor(source, catalog, recorder, 0.30)
		if err := membership.Load(context.Background()); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		monitor.Cycle(context.Background(), nil)
		monitor.Cycle(context.Background(), nil)

		if catalog.AppendCalls != 0 {
			t.Errorf("expected no appends, got %d", catalog.AppendCalls)
		}
		if len(recorder.Events) != 2 || recorder.Events[1].Kind != models.EventAlreadyPresent {
			t.Errorf("expected already-present event, got %+v", recorder.Events)
		}
	})

	t.Run("No Match Records And Skips Mutation", func(t *testing.T) {
		source := &tu.MockSource{Samples: []*models.Sample{
			tu.Playing("Interpol", "Evil"),
			tu.Playing("Obscure Artist", "Unreleased Demo"),
			tu.Playing("Obscure Artist", "Unreleased Demo"),
		}}
		catalog := &tu.MockCatalog{}
		recorder := &tu.MockRecorder{}

		monitor, _ := newTestMonitor(source, catalog, recorder, 0.30)

		monitor.Cycle(context.Background(), nil)
		monitor.Cycle(context.Background(), nil)
		monitor.Cycle(context.Background(), nil)

		if catalog.AppendCalls != 0 {
			t.Errorf("expected no appends, got %d", catalog.AppendCalls)
		}

		// The unmatched song was accepted; it is not re-resolved while playing.
		if catalog.SearchCalls != 1 {
			t.Errorf("expected 1 search for the unmatched song, got %d", catalog.SearchCalls)
		}
		if len(recorder.Events) != 2 || recorder.Events[1].Kind != models.EventNoMatch {
			t.Errorf("expected no-match event, got %+v", recorder.Events)
		}
	})

	t.Run("Catalog Failure Skips Mutation But Accepts Song", func(t *testing.T) {
		source := &tu.MockSource{Samples: []*models.Sample{
			tu.Playing("Interpol", "Evil"),
			tu.Playing("Tame Impala", "Elephant"),
			tu.Playing("Tame Impala", "Elephant"),
		}}
		catalog := &tu.MockCatalog{
			SearchErr: fmt.Errorf("%w: status 503", shared.ErrCatalogUnavailable),
		}
		recorder := &tu.MockRecorder{}

		monitor, _ := newTestMonitor(source, catalog, recorder, 0.30)

		monitor.Cycle(context.Background(), nil)
		monitor.Cycle(context.Background(), nil)
		monitor.Cycle(context.Background(), nil)

		if catalog.AppendCalls != 0 {
			t.Errorf("expected no appends, got %d", catalog.AppendCalls)
		}
		if catalog.SearchCalls != 1 {
			t.Errorf("expected the failed song not to be re-resolved, got %d searches", catalog.SearchCalls)
		}
		if len(recorder.Events) != 2 || recorder.Events[1].Kind != models.EventCatalogDown {
			t.Errorf("expected catalog-down event, got %+v", recorder.Events)
		}
	})

	t.Run("Source Failure Leaves State Untouched", func(t *testing.T) {
		source := &tu.MockSource{
			Samples: []*models.Sample{
				tu.Playing("Interpol", "Evil"),
				nil,
				tu.Playing("Interpol", "Evil"),
			},
			Errs: []error{nil, shared.ErrSourceTimeout, nil},
		}
		catalog := &tu.MockCatalog{}

		monitor, _ := newTestMonitor(source, catalog, nil, 0.30)

		monitor.Cycle(context.Background(), nil) // seeds
		monitor.Cycle(context.Background(), nil) // timeout, skipped
		monitor.Cycle(context.Background(), nil) // same song again

		if catalog.SearchCalls != 0 {
			t.Errorf("expected no resolutions, got %d", catalog.SearchCalls)
		}
	})

	t.Run("Empty Resolver ID Is Recorded", func(t *testing.T) {
		source := &tu.MockSource{Samples: []*models.Sample{
			tu.Playing("Interpol", "Evil"),
			tu.Playing("Tame Impala", "Elephant"),
		}}
		catalog := &tu.MockCatalog{
			SearchResults: map[string][]models.Track{
				"tame impala elephant": {
					{ID: "", Title: "Elephant", Artist: "Tame Impala"},
				},
			},
		}
		recorder := &tu.MockRecorder{}

		monitor, membership := newTestMonitor(source, catalog, recorder, 0.30)

		updates := make(chan CycleUpdate, 4)
		monitor.Cycle(context.Background(), updates)
		monitor.Cycle(context.Background(), updates)

		if catalog.AppendCalls != 0 {
			t.Errorf("expected no appends for an empty track id, got %d", catalog.AppendCalls)
		}
		if membership.Size() != 0 {
			t.Errorf("expected membership untouched, got size %d", membership.Size())
		}

		if len(recorder.Events) != 2 {
			t.Fatalf("expected detected and rejection events, got %d", len(recorder.Events))
		}
		if recorder.Events[1].Kind != models.EventNoMatch {
			t.Errorf("expected %s event, got %s", models.EventNoMatch, recorder.Events[1].Kind)
		}
		if recorder.Events[1].Detail == "" {
			t.Error("expected the rejection event to carry a detail")
		}

		var last CycleUpdate
		for len(updates) > 0 {
			last = <-updates
		}
		if last.Outcome != NoMatch {
			t.Errorf("expected NoMatch update, got %s", last.Outcome)
		}
	})

	t.Run("Updates Are Delivered Non-Blocking", func(t *testing.T) {
		source := &tu.MockSource{Samples: []*models.Sample{
			tu.Playing("Interpol", "Evil"),
			tu.Playing("Interpol", "Evil"),
		}}
		catalog := &tu.MockCatalog{}

		monitor, _ := newTestMonitor(source, catalog, nil, 0.30)

		// Unbuffered channel with no reader: sends must be dropped, not block.
		updates := make(chan CycleUpdate)
		monitor.Cycle(context.Background(), updates)

		// Buffered channel: the update is observable.
		buffered := make(chan CycleUpdate, 1)
		monitor.Cycle(context.Background(), buffered)

		select {
		case update := <-buffered:
			if update.Outcome != NoChange {
				t.Errorf("expected NoChange update, got %s", update.Outcome)
			}
		default:
			t.Error("expected an update on the buffered channel")
		}
	})
}

func TestMonitorRun(t *testing.T) {
	t.Run("Cancellation Stops The Paced Loop", func(t *testing.T) {
		samples := make([]*models.Sample, 16)
		for i := range samples {
			samples[i] = tu.Playing("Interpol", "Evil")
		}
		source := &tu.MockSource{Samples: samples}
		catalog := &tu.MockCatalog{}

		membership := NewMembership(catalog, "p1", 100)
		resolver := NewResolver(catalog, nil, 0.30, 5)

		monitor := NewMonitor(MonitorOpts{
			Source:     source,
			Catalog:    catalog,
			Resolver:   resolver,
			Membership: membership,
			Interval:   20 * time.Millisecond,
		})

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- monitor.Run(ctx, nil)
		}()

		time.Sleep(70 * time.Millisecond)
		cancel()

		var err error
		select {
		case err = <-errCh:
		case <-time.After(time.Second):
			t.Fatal("Run did not stop after cancellation")
		}

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}

		// One poll runs immediately, then one per 20ms interval.
		if source.Calls < 2 || source.Calls > 6 {
			t.Errorf("expected interval-paced polls, got %d in 70ms", source.Calls)
		}
	})
}
