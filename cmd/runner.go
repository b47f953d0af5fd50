package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibelist/internal/repositories"
	"github.com/desertthunder/vibelist/internal/services"
	"github.com/desertthunder/vibelist/internal/shared"
	"github.com/desertthunder/vibelist/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const tokenService = "spotify"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	spotify    *services.SpotifyService
	identifier services.Identifier
	generator  services.Generator
	extractor  tasks.SampleExtractor
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.PipelineEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Spotify    *services.SpotifyService
	Identifier services.Identifier
	Generator  services.Generator
	Extractor  tasks.SampleExtractor
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	engineOpts := tasks.EngineOpts{
		Extractor:  opts.Extractor,
		Identifier: opts.Identifier,
		Generator:  opts.Generator,
		Logger:     opts.Logger,
	}
	if opts.Spotify != nil {
		engineOpts.Catalog = opts.Spotify
		engineOpts.Publisher = opts.Spotify
	}

	return &Runner{
		config:     opts.Config,
		spotify:    opts.Spotify,
		identifier: opts.Identifier,
		generator:  opts.Generator,
		extractor:  opts.Extractor,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     tasks.NewPipelineEngine(engineOpts),
	}
}

// SetLogger swaps the runner's logger (and the engine's) for all subsequent work.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger

	engineOpts := tasks.EngineOpts{
		Extractor:  r.extractor,
		Identifier: r.identifier,
		Generator:  r.generator,
		Logger:     logger,
	}
	if r.spotify != nil {
		engineOpts.Catalog = r.spotify
		engineOpts.Publisher = r.spotify
	}
	r.engine = tasks.NewPipelineEngine(engineOpts)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, identifyCommand, playlistCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDatabase opens the configured SQLite database. Callers own the handle.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// saveToken persists a refreshed OAuth token, logging rather than failing on error.
func (r *Runner) saveToken(token *oauth2.Token) {
	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("failed to open database to persist token", "error", err)
		return
	}
	defer db.Close()

	if err := repositories.NewTokenRepository(db).Save(tokenService, token); err != nil {
		r.logger.Warn("failed to persist refreshed token", "error", err)
	}
}

// ensureSpotifyAuth loads the stored OAuth token and installs it on the
// Spotify service, registering a callback that persists rotated tokens.
func (r *Runner) ensureSpotifyAuth(ctx context.Context) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify credentials not configured", shared.ErrServiceUnavailable)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	token, err := repositories.NewTokenRepository(db).Get(tokenService)
	if err != nil {
		return err
	}
	if token == nil {
		return fmt.Errorf("%w: run 'vibelist auth login' first", shared.ErrNotAuthenticated)
	}

	r.spotify.SetTokenRefreshCallback(r.saveToken)
	return r.spotify.Authenticate(ctx, token)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
