package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vk/taskgraph/internal/ctxlog"
)

// startMonitorServer binds a dedicated HTTP server at cfg.MonitorAddr
// serving the live monitor's Socket.IO handler at "/socket.io/", separate
// from the healthcheck server: the two are independently configured (one
// by port, one by full address) and a deployment may want either without
// the other. An empty MonitorAddr, or no monitor configured, disables it.
func (a *App) startMonitorServer() {
	logger := ctxlog.FromContext(a.ctx)
	if a.monitor == nil || a.cfg.MonitorAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", a.monitor.Handler())

	a.monitorHTTPServer = &http.Server{Addr: a.cfg.MonitorAddr, Handler: mux}

	go func() {
		logger.Info("live monitor server starting", "address", a.cfg.MonitorAddr)
		if err := a.monitorHTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("live monitor server failed", "error", err)
		}
	}()
}

func (a *App) closeMonitorServer() error {
	if a.monitorHTTPServer == nil {
		return nil
	}
	logger := ctxlog.FromContext(a.ctx)

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()

	if err := a.monitorHTTPServer.Shutdown(ctx); err != nil {
		logger.Error("live monitor server shutdown failed", "error", err)
		return err
	}
	return nil
}
