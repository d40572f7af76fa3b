package dsl

// TaskDef is one parsed "task" block. Kind selects which taskgraph node
// variant gets built and which of the remaining fields apply:
//
//	source         Func, Affinity
//	unary          Func, Parent, Affinity
//	parallel_chunk Func, Count, Affinity
//	multi_join     Func, Parents, Affinity
type TaskDef struct {
	Kind string
	Name string

	Func string

	Parent  string
	Parents []string

	Count uint32

	Affinity []int
}

// Document is a parsed graph description: a flat, ordered list of task
// blocks. Order matters — a task may only reference names declared earlier
// in the same document.
type Document struct {
	Tasks []*TaskDef
}
