package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Conceptual-Machines/harmonix-api/internal/api"
	"github.com/Conceptual-Machines/harmonix-api/internal/config"
	"github.com/Conceptual-Machines/harmonix-api/internal/diagram"
	"github.com/Conceptual-Machines/harmonix-api/internal/firecrawl"
	"github.com/Conceptual-Machines/harmonix-api/internal/llm"
	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	"github.com/Conceptual-Machines/harmonix-api/internal/metrics"
	"github.com/Conceptual-Machines/harmonix-api/internal/music"
	"github.com/Conceptual-Machines/harmonix-api/internal/observability"
	"github.com/Conceptual-Machines/harmonix-api/internal/services"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
)

const filePerm = 0o644

var (
	errMissingArgument = errors.New("missing argument")
	errNoNotes         = errors.New("no valid notes to render")
)

// Runner holds the configuration and dependencies shared by every command
type Runner struct {
	cfg      *config.Config
	recorder metrics.Recorder
	output   io.Writer
	sentryOn bool

	// newProvider is swapped in tests so commands never reach a real LLM
	newProvider func(ctx context.Context, cfg *config.Config) (llm.Provider, error)
	newSource   func(cfg *config.Config) services.SongSource
}

// RunnerOpts contains configuration options for creating a Runner
type RunnerOpts struct {
	Output io.Writer
}

// NewRunner creates a Runner; configuration is loaded later by Setup
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{
		output:      opts.Output,
		recorder:    metrics.Nop{},
		newProvider: defaultProvider,
		newSource:   defaultSource,
	}
}

func defaultProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	return factory.GetProvider(ctx, cfg.LLMModel, cfg.LLMProvider)
}

func defaultSource(cfg *config.Config) services.SongSource {
	return firecrawl.NewClient(cfg.FirecrawlBaseURL, cfg.FirecrawlAPIKey, nil)
}

// Setup loads configuration and starts logging, error tracking, tracing and metrics
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.LoadFile(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	r.cfg = cfg

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("Unknown log level, keeping default", logger.Fields{"log_level": cfg.LogLevel})
	}

	r.sentryOn = initSentry(cfg)
	observability.InitializeLangfuse(ctx, cfg)

	cloudwatch, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		return ctx, fmt.Errorf("failed to create metrics client: %w", err)
	}
	r.recorder = metrics.Multi{metrics.NewSentryMetrics(), cloudwatch}

	return ctx, nil
}

// Teardown flushes buffered telemetry
func (r *Runner) Teardown(ctx context.Context, _ *cli.Command) error {
	if r.sentryOn {
		sentry.Flush(sentryFlushTimeout)
	}
	observability.GetClient().Flush(ctx)
	return nil
}

func (r *Runner) chordService(ctx context.Context) (*services.ChordService, error) {
	provider, err := r.newProvider(ctx, r.cfg)
	if err != nil {
		return nil, fmt.Errorf("LLM provider unavailable: %w", err)
	}
	return services.NewChordService(provider, r.cfg.LLMModel, r.recorder), nil
}

// songService builds the song service; the LLM is optional for plain lookups
func (r *Runner) songService(ctx context.Context) *services.SongService {
	provider, err := r.newProvider(ctx, r.cfg)
	if err != nil {
		logger.Warn("AI enhancement disabled", logger.Fields{"error": err.Error()})
		provider = nil
	}
	return services.NewSongService(r.newSource(r.cfg), provider, r.cfg.LLMModel, r.recorder)
}

// Serve runs the HTTP API
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	chords, err := r.chordService(ctx)
	if err != nil {
		return err
	}

	if r.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(r.cfg, api.Dependencies{
		Chords:   chords,
		Songs:    r.songService(ctx),
		Recorder: r.recorder,
	}, GetVersion())

	port := cmd.String("port")
	if port == "" {
		port = r.cfg.Port
	}

	logger.Info("Starting server", logger.Fields{
		"port":         port,
		"environment":  r.cfg.Environment,
		"llm_provider": r.cfg.LLMProvider,
		"llm_model":    r.cfg.LLMModel,
	})
	return router.Run(":" + port)
}

// Chord looks up a chord's notes and optionally writes its diagram
func (r *Runner) Chord(ctx context.Context, cmd *cli.Command) error {
	name := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: chord name", errMissingArgument)
	}

	chords, err := r.chordService(ctx)
	if err != nil {
		return err
	}

	result, err := chords.Lookup(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.output, "%s: %s\n", result.Chord, strings.Join(result.Notes, " "))

	out := cmd.String("out")
	if out == "" {
		return nil
	}
	png, err := base64.StdEncoding.DecodeString(result.Diagram)
	if err != nil {
		return fmt.Errorf("failed to decode diagram: %w", err)
	}
	return r.writeFile(out, png)
}

// Song looks up a chord sheet and prints it as JSON
func (r *Runner) Song(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: song query", errMissingArgument)
	}

	song, err := r.songService(ctx).Lookup(ctx, query)
	if err != nil {
		return err
	}
	return r.writeJSON(song, !cmd.Bool("compact"))
}

// Diagram renders the given notes offline, without any provider
func (r *Runner) Diagram(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one note", errMissingArgument)
	}

	var notes []string
	for _, raw := range args {
		note, ok := music.NormalizeNote(raw)
		if !ok {
			logger.Warn("Skipping unparseable note", logger.Fields{"note": raw})
			continue
		}
		midi, _ := music.MIDINumber(note)
		suffix := ""
		if !diagram.InLayout(note) {
			suffix = " (outside keyboard)"
		}
		fmt.Fprintf(r.output, "%-4s midi %d%s\n", note, midi, suffix)
		notes = append(notes, note)
	}
	if len(notes) == 0 {
		return errNoNotes
	}

	png, err := diagram.Render(notes)
	if err != nil {
		return err
	}
	return r.writeFile(cmd.String("out"), png)
}

func (r *Runner) writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(r.output, "wrote %s (%d bytes)\n", path, len(data))
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
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = fmt.Fprintln(r.output, string(output))
	return err
}
