package app

import (
	"fmt"
	"os"

	"github.com/vk/taskgraph/internal/dsl"
	"github.com/vk/taskgraph/internal/notify"
)

// Run loads the graph document named by the app's config, builds it
// against the app's registry, runs it to completion, and delivers the
// optional completion webhook. It starts and stops the healthcheck/monitor
// HTTP server around the run.
func (a *App) Run() error {
	logger := a.logger
	logger.Debug("app run started", "graph_path", a.cfg.GraphPath)

	a.startHealthcheckServer()
	a.startMonitorServer()
	defer func() {
		if err := a.closeHealthcheckServer(); err != nil {
			logger.Warn("healthcheck server did not shut down cleanly", "error", err)
		}
		if err := a.closeMonitorServer(); err != nil {
			logger.Warn("live monitor server did not shut down cleanly", "error", err)
		}
		if a.monitor != nil {
			if err := a.monitor.Close(); err != nil {
				logger.Warn("monitor server did not shut down cleanly", "error", err)
			}
		}
		if a.webhook != nil {
			if err := a.webhook.Close(); err != nil {
				logger.Warn("webhook client did not shut down cleanly", "error", err)
			}
		}
	}()

	src, err := os.ReadFile(a.cfg.GraphPath)
	if err != nil {
		return fmt.Errorf("app: reading graph document: %w", err)
	}

	doc, err := dsl.Load(src, a.cfg.GraphPath)
	if err != nil {
		return fmt.Errorf("app: loading graph document: %w", err)
	}

	graph, _, err := dsl.Build(doc, a.reg, a.cfg.WorkerCount)
	if err != nil {
		return fmt.Errorf("app: building graph: %w", err)
	}

	if a.monitor != nil {
		graph.SetObserver(a.monitor)
	}

	logger.Info("starting graph execution", "tasks", len(doc.Tasks), "workers", a.cfg.WorkerCount)
	duration, runErr := withTiming(func() error {
		return graph.WaitAll(a.ctx)
	})

	report := notify.Report{
		TaskCount: len(doc.Tasks),
		Duration:  duration,
		Succeeded: runErr == nil,
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}
	if a.webhook != nil {
		a.webhook.Notify(a.ctx, report)
	}

	if runErr != nil {
		return fmt.Errorf("app: graph execution failed: %w", runErr)
	}
	logger.Info("graph execution finished", "duration", duration)
	return nil
}
