// Package builtins registers the small set of general-purpose callables the
// taskgraph binary ships out of the box, so a graph document doesn't need a
// custom Go program behind it just to print a value or read the process
// environment.
package builtins
