package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vk/taskgraph/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly (e.g. -help, or no
// graph path given), or an ExitError.
func Parse(args []string, output io.Writer) (*config.Config, bool, error) {
	flagSet := flag.NewFlagSet("taskgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
taskgraph - an in-process task-graph scheduler.

Usage:
  taskgraph [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to an HCL file describing the task graph to run.

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the graph document.")
	gFlag := flagSet.String("g", "", "Path to the graph document (shorthand).")
	workersFlag := flagSet.Int("workers", 4, "Number of worker goroutines.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	monitorAddrFlag := flagSet.String("monitor-addr", "", "Address (e.g. :8090) for a dedicated HTTP server exposing the live Socket.IO monitor. Empty disables it. Independent of -healthcheck-port.")
	webhookURLFlag := flagSet.String("webhook-url", "", "URL to POST a completion report to. Empty disables it.")
	webhookTimeoutFlag := flagSet.Duration("webhook-timeout", 10*time.Second, "Timeout for the completion webhook request.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	switch {
	case *graphFlag != "":
		path = *graphFlag
	case *gFlag != "":
		path = *gFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	cfg := &config.Config{
		GraphPath:       path,
		WorkerCount:     *workersFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
		HealthcheckPort: *healthPortFlag,
		MonitorAddr:     *monitorAddrFlag,
		WebhookURL:      *webhookURLFlag,
		WebhookTimeout:  *webhookTimeoutFlag,
	}
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return cfg, false, nil
}
