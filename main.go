package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Conceptual-Machines/harmonix-api/internal/config"
	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Output: os.Stdout})
	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		sentry.CaptureException(err)
		sentry.Flush(sentryFlushTimeout)
		logger.Error("harmonix failed", err, nil)
		os.Exit(1)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "harmonix",
		Usage:   "Chord lookup, chord-sheet search and keyboard diagrams",
		Version: GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional TOML configuration file",
				Sources: cli.EnvVars(config.ConfigPathEnv),
			},
		},
		Before:   r.Setup,
		After:    r.Teardown,
		Action:   r.Serve,
		Commands: r.register(),
	}
}

// initSentry starts error tracking when a DSN is configured
func initSentry(cfg *config.Config) bool {
	if cfg.SentryDSN == "" {
		logger.Warn("Sentry not configured (SENTRY_DSN not set)", nil)
		return false
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          "harmonix-api@" + releaseVersion,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		EnableLogs:       true,
		Debug:            cfg.Environment != environmentProduction,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			// Filter out sensitive data
			if event.Request != nil {
				event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
			}
			return event
		},
	}); err != nil {
		logger.Warn("Failed to initialize Sentry", logger.Fields{"error": err.Error()})
		return false
	}

	logger.Info("Sentry initialized", logger.Fields{
		"environment": cfg.Environment,
		"release":     releaseVersion,
	})
	return true
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
