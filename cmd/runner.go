package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/airlift/internal/formatter"
	"github.com/desertthunder/airlift/internal/models"
	"github.com/desertthunder/airlift/internal/repositories"
	"github.com/desertthunder/airlift/internal/server"
	"github.com/desertthunder/airlift/internal/services"
	"github.com/desertthunder/airlift/internal/shared"
	"github.com/desertthunder/airlift/internal/tasks"
	"github.com/desertthunder/airlift/internal/ui"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/urfave/cli/v3"
)

const tokenFileName = "token.json"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	spotify *services.SpotifyService
	source  services.Source
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Spotify *services.SpotifyService
	Source  services.Source
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		spotify: opts.Spotify,
		source:  opts.Source,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, monitorCommand, playlistCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// tokenPath returns the location of the cached OAuth token.
func tokenPath() (string, error) {
	dir, err := shared.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tokenFileName), nil
}

// ensureAuth installs the cached OAuth token on the Spotify client.
func (r *Runner) ensureAuth(ctx context.Context) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: spotify credentials not configured", shared.ErrMissingCredentials)
	}

	path, err := tokenPath()
	if err != nil {
		return err
	}

	token, err := services.LoadToken(path)
	if err != nil {
		return fmt.Errorf("%w: run `airlift auth login` first", shared.ErrNotAuthenticated)
	}

	r.spotify.UseToken(ctx, token)
	return nil
}

// openHistory opens the history database and applies pending migrations.
func (r *Runner) openHistory() (*sql.DB, error) {
	path := r.config.Database.Path
	if path == "" {
		dir, err := shared.ConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "airlift.db")
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Setup initializes the config file and history database schema.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		r.logger.Warnf("skipping config creation: %v", err)
	} else {
		r.logger.Infof("created config file at %s", configPath)
	}

	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("history database initialized")
	return r.writePlain("✓ Setup complete\n")
}

// AuthLogin runs the OAuth2 authorization-code flow in the system browser
// and caches the resulting token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: spotify credentials not configured", shared.ErrMissingCredentials)
	}

	state := shared.GenerateID()
	authURL := r.spotify.GetAuthURL(state)

	r.logger.Info("opening browser for authorization")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser: %v", err)
		r.writePlain("Open this URL to authorize:\n%s\n", authURL)
	}

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	handler := server.NewOAuthHandler(r.spotify.OAuthConfig(), state)

	token, err := server.AwaitCallback(ctx, addr, handler, 2*time.Minute)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := services.SaveToken(path, token); err != nil {
		return err
	}

	r.spotify.UseToken(ctx, token)

	profile, err := r.spotify.UserProfile(ctx)
	if err != nil {
		return fmt.Errorf("token saved but profile lookup failed: %w", err)
	}

	r.logger.Infof("token saved to %s", path)
	return r.writePlain("✓ Authenticated as %s (%s)\n", profile.DisplayName, profile.ID)
}

// AuthStatus checks whether the cached token is still usable.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureAuth(ctx); err != nil {
		r.writePlain("✗ Not authenticated\n")
		return err
	}

	profile, err := r.spotify.UserProfile(ctx)
	if err != nil {
		r.writePlain("✗ Token rejected\n")
		return err
	}

	return r.writePlain("✓ Authenticated as %s (%s)\n", profile.DisplayName, profile.ID)
}

// Monitor runs the reconciliation loop until interrupted.
func (r *Runner) Monitor(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	if r.source == nil {
		return fmt.Errorf("%w: now-playing source not configured", shared.ErrInvalidConfig)
	}
	if err := r.ensureAuth(ctx); err != nil {
		return err
	}

	interval := r.config.Monitor.Interval()
	if seconds := cmd.Int("interval"); seconds > 0 {
		interval = time.Duration(seconds) * time.Second
	}

	threshold := r.config.Monitor.SimilarityThreshold
	if cmd.IsSet("threshold") {
		threshold = cmd.Float("threshold")
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("%w: threshold must be in [0,1]", shared.ErrInvalidFlag)
		}
	}

	var recorder tasks.Recorder
	if !cmd.Bool("no-history") {
		db, err := r.openHistory()
		if err != nil {
			return err
		}
		defer db.Close()
		recorder = repositories.NewEventRepository(db)
	}

	membership := tasks.NewMembership(r.spotify, r.config.Monitor.PlaylistID, 0)
	if err := membership.Load(ctx); err != nil {
		// Startup cannot proceed without the authoritative membership set.
		return err
	}
	r.logger.Info("playlist membership loaded",
		"playlist", r.config.Monitor.PlaylistID,
		"tracks", membership.Size(),
	)

	resolver := tasks.NewResolver(r.spotify, r.logger, threshold, r.config.Monitor.SearchLimit)

	monitor := tasks.NewMonitor(tasks.MonitorOpts{
		Source:     r.source,
		Catalog:    r.spotify,
		Resolver:   resolver,
		Membership: membership,
		Logger:     r.logger,
		Recorder:   recorder,
		Interval:   interval,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	updates := make(chan tasks.CycleUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range updates {
			fmt.Fprintln(r.output, ui.RenderUpdate(update))
		}
	}()

	err := monitor.Run(ctx, updates)
	close(updates)
	<-done

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// PlaylistList prints all playlists for the authenticated user.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureAuth(ctx); err != nil {
		return err
	}

	playlists, err := r.spotify.GetPlaylists(ctx)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", ui.Title(fmt.Sprintf("Playlists (%d)", len(playlists))))
	for _, pl := range playlists {
		r.writePlain("%s  %s (%d tracks)\n", pl.ID, pl.Name, pl.TrackCount)
	}

	return nil
}

// PlaylistFind fuzzy-matches the user's playlists by name.
func (r *Runner) PlaylistFind(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("name")
	if query == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	if err := r.ensureAuth(ctx); err != nil {
		return err
	}

	playlists, err := r.spotify.GetPlaylists(ctx)
	if err != nil {
		return err
	}

	names := make([]string, len(playlists))
	for i, pl := range playlists {
		names[i] = pl.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return fmt.Errorf("%w: no playlist matching %q", shared.ErrPlaylistNotFound, query)
	}
	sort.Sort(ranks)

	r.writePlain("%s\n", ui.Title(fmt.Sprintf("Matches for %q", query)))
	for _, rank := range ranks {
		pl := playlists[rank.OriginalIndex]
		r.writePlain("%s  %s (%d tracks)\n", pl.ID, pl.Name, pl.TrackCount)
	}

	return nil
}

// PlaylistCreate creates a new private playlist for the configured user.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	if err := r.ensureAuth(ctx); err != nil {
		return err
	}

	description := cmd.String("description")
	created, err := r.spotify.CreatePlaylist(ctx, name, description)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Created playlist %s (ID: %s)\n", created.Name, created.ID)
}

// HistoryList prints recent curation decisions.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewEventRepository(db)

	var events []models.Event
	if kind := cmd.String("kind"); kind != "" {
		events, err = repo.ByKind(models.EventKind(kind), int(cmd.Int("limit")))
	} else {
		events, err = repo.Recent(int(cmd.Int("limit")))
	}
	if err != nil {
		return err
	}

	data, err := formatter.ExportToText(events)
	if err != nil {
		return err
	}

	return r.writePlain("%s", string(data))
}

// HistoryExport writes curation history to a file in the requested format.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewEventRepository(db)
	events, err := repo.Recent(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	var data []byte
	format := cmd.String("format")
	switch format {
	case "csv":
		data, err = formatter.ExportToCSV(events)
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(events, "Curation History")
	case "txt", "text":
		data, err = formatter.ExportToText(events)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	outPath := cmd.String("out")
	if outPath == "" {
		return r.writePlain("%s", string(data))
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	return r.writePlain("✓ Exported %d events to %s\n", len(events), outPath)
}
