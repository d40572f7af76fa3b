package builtins

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/vk/taskgraph/internal/dsl"
	"github.com/zclconf/go-cty/cty"
)

// Register adds the built-in callables to reg: "env_vars" (a source
// exposing the process environment as a cty object) and "print" (a unary
// that writes its input to w, sorted when it's an object, and passes the
// value through unchanged).
func Register(reg *dsl.Registry, w interface{ Write([]byte) (int, error) }) {
	reg.Register("env_vars", EnvVars)
	reg.Register("print", Print(w))
}

// EnvVars reads the process environment and returns it as a cty object,
// keyed by variable name.
func EnvVars() cty.Value {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			vars[parts[0]] = cty.StringVal(parts[1])
		}
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

// Print returns a unary callable that writes v to w and returns it
// unchanged, so "print" can sit in the middle of a chain without breaking
// it. Object values are printed with their keys sorted for stable output.
func Print(w interface{ Write([]byte) (int, error) }) func(cty.Value) cty.Value {
	return func(v cty.Value) cty.Value {
		if v.Type().IsObjectType() {
			keys := make([]string, 0, len(v.Type().AttributeTypes()))
			for k := range v.Type().AttributeTypes() {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "%s = %s\n", k, formatValue(v.GetAttr(k)))
			}
			return v
		}
		fmt.Fprintln(w, formatValue(v))
		return v
	}
}

func formatValue(v cty.Value) string {
	if v.IsNull() {
		return "<null>"
	}
	switch {
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type() == cty.Number:
		return v.AsBigFloat().String()
	case v.Type() == cty.Bool:
		return fmt.Sprintf("%t", v.True())
	default:
		return fmt.Sprintf("%#v", v)
	}
}
