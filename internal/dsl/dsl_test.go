package dsl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

func testCtx() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ctyInt(v int64) cty.Value { return cty.NumberIntVal(v) }

func asInt(t *testing.T, v cty.Value) int64 {
	t.Helper()
	bf := v.AsBigFloat()
	i, _ := bf.Int64()
	return i
}

const sampleDoc = `
task "source" "init" {
  func = "init_counter"
}
task "unary" "double" {
  parent = "init"
  func   = "double"
}
task "parallel_chunk" "rows" {
  count    = 8
  func     = "process_row"
  affinity = [0, 1]
}
task "multi_join" "flush" {
  parents = ["rows"]
  func    = "flush"
}
`

func TestLoad_ParsesAllFourKinds(t *testing.T) {
	doc, err := Load([]byte(sampleDoc), "sample.hcl")
	require.NoError(t, err)
	require.Len(t, doc.Tasks, 4)

	assert.Equal(t, "source", doc.Tasks[0].Kind)
	assert.Equal(t, "init", doc.Tasks[0].Name)
	assert.Equal(t, "init_counter", doc.Tasks[0].Func)

	assert.Equal(t, "unary", doc.Tasks[1].Kind)
	assert.Equal(t, "init", doc.Tasks[1].Parent)

	assert.Equal(t, "parallel_chunk", doc.Tasks[2].Kind)
	assert.EqualValues(t, 8, doc.Tasks[2].Count)
	assert.Equal(t, []int{0, 1}, doc.Tasks[2].Affinity)

	assert.Equal(t, "multi_join", doc.Tasks[3].Kind)
	assert.Equal(t, []string{"rows"}, doc.Tasks[3].Parents)
}

func TestLoad_DuplicateLabelFails(t *testing.T) {
	src := `
task "source" "a" { func = "f" }
task "source" "a" { func = "f" }
`
	_, err := Load([]byte(src), "dup.hcl")
	assert.Error(t, err)
}

func TestLoad_MissingFuncFails(t *testing.T) {
	src := `task "source" "a" {}`
	_, err := Load([]byte(src), "missing.hcl")
	assert.Error(t, err)
}

func TestBuild_EndToEnd(t *testing.T) {
	doc, err := Load([]byte(sampleDoc), "sample.hcl")
	require.NoError(t, err)

	var processed []int64
	reg := NewRegistry()
	reg.Register("init_counter", func() cty.Value { return ctyInt(10) })
	reg.Register("double", func(v cty.Value) cty.Value {
		bf := v.AsBigFloat()
		i, _ := bf.Int64()
		return ctyInt(i * 2)
	})
	reg.Register("process_row", func(k uint32) cty.Value {
		processed = append(processed, int64(k))
		return ctyInt(int64(k))
	})
	flushed := false
	reg.Register("flush", func() cty.Value {
		flushed = true
		return ctyInt(int64(len(processed)))
	})

	g, nodes, err := Build(doc, reg, 4)
	require.NoError(t, err)
	require.NoError(t, g.WaitAll(testCtx()))

	assert.True(t, flushed)
	assert.Equal(t, int64(20), asInt(t, nodes["double"].Result()))
	assert.Equal(t, int64(8), asInt(t, nodes["flush"].Result()))
}

func TestBuild_UnknownParentFails(t *testing.T) {
	doc := &Document{Tasks: []*TaskDef{
		{Kind: "unary", Name: "x", Func: "f", Parent: "missing"},
	}}
	reg := NewRegistry()
	reg.Register("f", func(v cty.Value) cty.Value { return v })
	_, _, err := Build(doc, reg, 1)
	assert.Error(t, err)
}

func TestBuild_WrongSignatureFails(t *testing.T) {
	doc := &Document{Tasks: []*TaskDef{
		{Kind: "source", Name: "a", Func: "f"},
		{Kind: "unary", Name: "x", Func: "f", Parent: "a"},
	}}
	reg := NewRegistry()
	// Registered as a source-shaped callable, referenced from a unary
	// block: the mismatch must surface from Build, not Register.
	reg.Register("f", func() cty.Value { return cty.True })
	_, _, err := Build(doc, reg, 1)
	assert.Error(t, err)
}

func TestBuild_UnregisteredFuncFails(t *testing.T) {
	doc := &Document{Tasks: []*TaskDef{
		{Kind: "source", Name: "a", Func: "nope"},
	}}
	_, _, err := Build(doc, NewRegistry(), 1)
	assert.Error(t, err)
}

func TestBuild_MultiJoinWithNoParentsRunsImmediately(t *testing.T) {
	doc := &Document{Tasks: []*TaskDef{
		{Kind: "multi_join", Name: "flush", Func: "flush"},
	}}
	ran := false
	reg := NewRegistry()
	reg.Register("flush", func() cty.Value { ran = true; return cty.True })

	g, _, err := Build(doc, reg, 1)
	require.NoError(t, err)
	require.NoError(t, g.WaitAll(testCtx()))
	assert.True(t, ran)
}

func TestBuild_MultiJoinReferencesChunkGroup(t *testing.T) {
	doc := &Document{Tasks: []*TaskDef{
		{Kind: "parallel_chunk", Name: "rows", Func: "row", Count: 3},
		{Kind: "multi_join", Name: "flush", Func: "flush", Parents: []string{"rows"}},
	}}
	var seen []uint32
	reg := NewRegistry()
	reg.Register("row", func(k uint32) cty.Value { seen = append(seen, k); return cty.True })
	reg.Register("flush", func() cty.Value { return cty.NumberIntVal(int64(len(seen))) })

	g, nodes, err := Build(doc, reg, 2)
	require.NoError(t, err)
	require.NoError(t, g.WaitAll(testCtx()))

	assert.Len(t, seen, 3)
	assert.Equal(t, int64(3), asInt(t, nodes["flush"].Result()))
}
