// Package config holds the fully-resolved runtime configuration for the
// taskgraph binary: where the graph document lives, how many workers to
// run, and how the optional monitor/webhook integrations are wired. Values
// come from CLI flags first, then may be overridden by TASKGRAPH_*
// environment variables.
package config
