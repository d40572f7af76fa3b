package dsl

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// Registry maps the names used in a document's "func" attributes to
// concrete Go callables. A document never embeds executable code itself —
// it only references names the host program has registered, the same
// separation the declarative config keeps between resource blocks and the
// handlers that implement them.
//
// All callables exchange cty.Value: the document can't know at parse time
// what concrete Go type a node's result will have, so every node in a
// dsl-built graph carries its payload as a dynamically typed cty.Value,
// same as an HCL-driven step would. Register accepts any callable under a
// name and defers signature checking, done by reflection on the callable's
// type, to graph-build time — a task block's
// declared kind decides how a registered name is expected to be shaped,
// not the other way around, so a mismatch is reported against the block
// referencing it, with a useful location, rather than at registration.
type Registry struct {
	fns map[string]any
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]any)}
}

// Register adds fn under name. fn must be a function value; anything else
// is rejected once a task block actually resolves it, not here.
func (r *Registry) Register(name string, fn any) {
	r.fns[name] = fn
}

var ctyValueType = reflect.TypeOf(cty.Value{})

func (r *Registry) lookup(name string) (reflect.Value, error) {
	fn, ok := r.fns[name]
	if !ok {
		return reflect.Value{}, fmt.Errorf("dsl: no func registered as %q", name)
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("dsl: %q is registered as a %s, not a function", name, v.Kind())
	}
	return v, nil
}

// source resolves name to a nullary func() cty.Value callable for use in a
// "source" task block, checking fn's signature via reflection.
func (r *Registry) source(name string) (func() cty.Value, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	t := v.Type()
	if t.NumIn() != 0 || t.NumOut() != 1 || t.Out(0) != ctyValueType {
		return nil, fmt.Errorf("dsl: func %q has signature %s, want func() cty.Value for a source task", name, t)
	}
	return func() cty.Value {
		out := v.Call(nil)
		return out[0].Interface().(cty.Value)
	}, nil
}

// unary resolves name to a func(cty.Value) cty.Value callable for use in a
// "unary" task block.
func (r *Registry) unary(name string) (func(cty.Value) cty.Value, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	t := v.Type()
	if t.NumIn() != 1 || t.In(0) != ctyValueType || t.NumOut() != 1 || t.Out(0) != ctyValueType {
		return nil, fmt.Errorf("dsl: func %q has signature %s, want func(cty.Value) cty.Value for a unary task", name, t)
	}
	return func(in cty.Value) cty.Value {
		out := v.Call([]reflect.Value{reflect.ValueOf(in)})
		return out[0].Interface().(cty.Value)
	}, nil
}

// chunk resolves name to a func(uint32) cty.Value callable for use in a
// "parallel_chunk" task block.
func (r *Registry) chunk(name string) (func(uint32) cty.Value, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	t := v.Type()
	if t.NumIn() != 1 || t.In(0).Kind() != reflect.Uint32 || t.NumOut() != 1 || t.Out(0) != ctyValueType {
		return nil, fmt.Errorf("dsl: func %q has signature %s, want func(uint32) cty.Value for a parallel_chunk task", name, t)
	}
	return func(k uint32) cty.Value {
		out := v.Call([]reflect.Value{reflect.ValueOf(k)})
		return out[0].Interface().(cty.Value)
	}, nil
}

// join resolves name to a nullary func() cty.Value callable for use in a
// "multi_join" task block. The signature is identical to source's — it is
// the block's declared kind, not the callable's shape, that decides
// whether a nullary cty.Value producer acts as a root or as a fan-in.
func (r *Registry) join(name string) (func() cty.Value, error) {
	return r.source(name)
}
