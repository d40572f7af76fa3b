package dsl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var taskBlockSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "task", LabelNames: []string{"kind", "name"}},
	},
}

var taskBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "func", Required: true},
		{Name: "parent", Required: false},
		{Name: "parents", Required: false},
		{Name: "count", Required: false},
		{Name: "affinity", Required: false},
	},
}

// Load parses an HCL document describing a task graph. Attributes are
// evaluated without a variable context — a document is a static list of
// task declarations, not a templated expression language — so any
// traversal other than a literal is rejected by hcl itself.
func Load(src []byte, filename string) (*Document, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("dsl: parse %s: %w", filename, diags)
	}

	content, diags := f.Body.Content(taskBlockSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("dsl: %s: %w", filename, diags)
	}

	doc := &Document{}
	seen := make(map[string]bool, len(content.Blocks))
	for _, block := range content.Blocks {
		def, err := decodeTaskBlock(block)
		if err != nil {
			return nil, err
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("dsl: %s: duplicate task label %q", filename, def.Name)
		}
		seen[def.Name] = true
		doc.Tasks = append(doc.Tasks, def)
	}
	return doc, nil
}

func decodeTaskBlock(block *hcl.Block) (*TaskDef, error) {
	name := block.Labels[1]
	body, diags := block.Body.Content(taskBodySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("dsl: task %q: %w", name, diags)
	}

	def := &TaskDef{Kind: block.Labels[0], Name: name}

	funcAttr := body.Attributes["func"]
	if err := decodeString(funcAttr, &def.Func); err != nil {
		return nil, fmt.Errorf("dsl: task %q: attribute \"func\": %w", name, err)
	}

	if attr, ok := body.Attributes["parent"]; ok {
		if err := decodeString(attr, &def.Parent); err != nil {
			return nil, fmt.Errorf("dsl: task %q: attribute \"parent\": %w", name, err)
		}
	}
	if attr, ok := body.Attributes["parents"]; ok {
		if err := decodeStringList(attr, &def.Parents); err != nil {
			return nil, fmt.Errorf("dsl: task %q: attribute \"parents\": %w", name, err)
		}
	}
	if attr, ok := body.Attributes["count"]; ok {
		var count int
		if err := decodeInt(attr, &count); err != nil {
			return nil, fmt.Errorf("dsl: task %q: attribute \"count\": %w", name, err)
		}
		if count < 0 {
			return nil, fmt.Errorf("dsl: task %q: attribute \"count\" must not be negative", name)
		}
		def.Count = uint32(count)
	}
	if attr, ok := body.Attributes["affinity"]; ok {
		if err := decodeIntList(attr, &def.Affinity); err != nil {
			return nil, fmt.Errorf("dsl: task %q: attribute \"affinity\": %w", name, err)
		}
	}

	return def, nil
}

func decodeString(attr *hcl.Attribute, out *string) error {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	return gocty.FromCtyValue(val, out)
}

func decodeInt(attr *hcl.Attribute, out *int) error {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	return gocty.FromCtyValue(val, out)
}

func decodeStringList(attr *hcl.Attribute, out *[]string) error {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	val, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(val, out)
}

func decodeIntList(attr *hcl.Attribute, out *[]int) error {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	val, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(val, out)
}
