package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/taskgraph/internal/ctxlog"
)

// healthHandler serves the /health endpoint, logging each request to the
// app's logger and answering 200 "OK".
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("health check endpoint hit", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// startHealthcheckServer initializes and runs the health check HTTP
// server. A non-positive HealthcheckPort disables it entirely. The live
// monitor, if configured, runs on its own server — see startMonitorServer
// in monitor.go — since it is addressed independently via MonitorAddr.
func (a *App) startHealthcheckServer() {
	logger := ctxlog.FromContext(a.ctx)
	if a.cfg.HealthcheckPort <= 0 {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)

	addr := fmt.Sprintf(":%d", a.cfg.HealthcheckPort)
	a.httpServer = &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health check server failed", "error", err)
		}
	}()
}

func (a *App) closeHealthcheckServer() error {
	if a.httpServer == nil {
		return nil
	}
	logger := ctxlog.FromContext(a.ctx)

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("health check server shutdown failed", "error", err)
		return err
	}
	return nil
}
