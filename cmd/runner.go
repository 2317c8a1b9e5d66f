package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/repositories"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/session"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	session    *session.Session
	services   *services.Services
	httpClient *http.Client
	cache      *repositories.VideoCacheRepository
	cacher     tasks.VideoCacher
	exporter   *tasks.Exporter
	logger     *log.Logger
	output     io.Writer
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Session    *session.Session // default: signed out, kept in memory
	HTTPClient *http.Client
	Cache      *repositories.VideoCacheRepository // nil disables --cache and `videos cached`
	Logger     *log.Logger
	Output     io.Writer
	OpenURL    func(string) error // default: [shared.OpenBrowser]
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
		opts.HTTPClient = &http.Client{Timeout: opts.Config.API.Timeout()}
	}
	if opts.Session == nil {
		opts.Session = session.New(nil, opts.Logger)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		session:    opts.Session,
		httpClient: opts.HTTPClient,
		cache:      opts.Cache,
		logger:     opts.Logger,
		output:     opts.Output,
		openURL:    opts.OpenURL,
	}
	if opts.Cache != nil {
		r.cacher = repositories.NewVideoCacheAdapter(opts.Cache)
	}
	r.connect()
	return r
}

// connect builds the backend clients with the current logger.
func (r *Runner) connect() {
	client := services.NewClient(services.ClientOpts{
		BaseURL:           r.config.API.BaseURL,
		HTTPClient:        r.httpClient,
		Tokens:            r.session,
		RequestsPerSecond: r.config.API.RequestsPerSecond,
		Logger:            r.logger,
		OnUnauthorized: func() {
			if err := r.session.Clear(); err != nil {
				r.logger.Warn("failed to clear expired session", "error", err)
			}
		},
	})
	r.services = services.New(client)
	r.exporter = tasks.NewExporter(r.cacher, r.logger)
}

// SetLogger replaces the logger used by the runner and every backend client.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.connect()
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, videosCommand, favoritesCommand, adminCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireSession fails unless an account is signed in.
func (r *Runner) requireSession() error {
	if !r.session.SignedIn() {
		return fmt.Errorf("%w: run `vidx auth login` first", shared.ErrNotAuthenticated)
	}
	return nil
}

// requireAdmin fails unless an admin account is signed in.
func (r *Runner) requireAdmin() error {
	if err := r.requireSession(); err != nil {
		return err
	}
	if !r.session.IsAdmin() {
		return fmt.Errorf("%w: admin role required", shared.ErrForbidden)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
