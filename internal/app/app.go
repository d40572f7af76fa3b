package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vk/taskgraph/internal/config"
	"github.com/vk/taskgraph/internal/ctxlog"
	"github.com/vk/taskgraph/internal/dsl"
	"github.com/vk/taskgraph/internal/monitor"
	"github.com/vk/taskgraph/internal/notify"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: it owns the logger, the optional healthcheck/monitor HTTP
// servers, and the optional completion webhook, and ties them together in
// Run.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	ctx    context.Context
	cfg    *config.Config
	reg    *dsl.Registry

	httpServer        *http.Server
	monitor           *monitor.Server
	monitorHTTPServer *http.Server
	webhook           *notify.Webhook
}

// NewApp is the constructor for the main application. reg supplies the
// named callables a graph document's "func" attributes resolve against.
func NewApp(outW io.Writer, cfg *config.Config, reg *dsl.Registry) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	a := &App{
		outW:   outW,
		logger: logger,
		ctx:    ctx,
		cfg:    cfg,
		reg:    reg,
	}

	if cfg.MonitorAddr != "" {
		a.monitor = monitor.NewServer(cfg.GraphPath)
	}
	if cfg.WebhookURL != "" {
		a.webhook = notify.NewWebhook(cfg.WebhookURL, cfg.WebhookTimeout)
	}

	return a
}

// withTiming is a small helper used by Run to report the total wall-clock
// duration of a graph execution in the completion webhook, without
// threading a time.Time through every call site.
func withTiming(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}
