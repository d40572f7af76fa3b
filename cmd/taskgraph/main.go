package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/taskgraph/internal/app"
	"github.com/vk/taskgraph/internal/builtins"
	"github.com/vk/taskgraph/internal/cli"
	"github.com/vk/taskgraph/internal/dsl"
)

// main is the entrypoint for the taskgraph binary.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling: it parses flags, builds the registry of built-in callables,
// and runs the graph named on the command line.
func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(outW, "a critical startup error occurred: %v\n", r)
			os.Exit(1)
		}
	}()

	reg := dsl.NewRegistry()
	builtins.Register(reg, outW)

	taskgraphApp := app.NewApp(outW, cfg, reg)
	return taskgraphApp.Run()
}
