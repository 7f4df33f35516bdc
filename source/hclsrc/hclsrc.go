// Package hclsrc turns HCL configuration bodies into document trees that the
// binder accepts.
//
// Attributes are evaluated without variables or functions. Blocks become
// nested objects keyed by block type and then by each label; an unlabeled
// block type that appears more than once becomes an array of objects.
package hclsrc

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/reoring/jsonbind/node"
)

// Parse parses HCL native syntax and converts the body into an object node.
// filename is used in diagnostics only.
func Parse(data []byte, filename string) (node.Node, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return node.Node{}, fmt.Errorf("failed to parse HCL %s: %w", filename, diags)
	}
	return fromFile(file, filename)
}

// ParseFile reads and converts the HCL file at path.
func ParseFile(path string) (node.Node, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return node.Node{}, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return fromFile(file, path)
}

func fromFile(file *hcl.File, filename string) (node.Node, error) {
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return node.Node{}, fmt.Errorf("hclsrc: %s: unsupported body type %T", filename, file.Body)
	}
	return bodyToNode(body)
}

func bodyToNode(body *hclsyntax.Body) (node.Node, error) {
	out := make(map[string]node.Node, len(body.Attributes))
	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return node.Node{}, fmt.Errorf("attribute %q: %w", name, diags)
		}
		n, err := CtyToNode(val)
		if err != nil {
			return node.Node{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = n
	}

	// Group blocks by type, preserving source order inside each group.
	var order []string
	groups := map[string][]*hclsyntax.Block{}
	for _, blk := range body.Blocks {
		if _, clash := body.Attributes[blk.Type]; clash {
			return node.Node{}, fmt.Errorf("block %q at %s conflicts with an attribute of the same name", blk.Type, blk.DefRange())
		}
		if _, seen := groups[blk.Type]; !seen {
			order = append(order, blk.Type)
		}
		groups[blk.Type] = append(groups[blk.Type], blk)
	}
	for _, typ := range order {
		n, err := blocksToNode(groups[typ])
		if err != nil {
			return node.Node{}, fmt.Errorf("block %q: %w", typ, err)
		}
		out[typ] = n
	}
	return node.Object(out), nil
}

func blocksToNode(blocks []*hclsyntax.Block) (node.Node, error) {
	if len(blocks[0].Labels) == 0 {
		items := make([]node.Node, 0, len(blocks))
		for _, blk := range blocks {
			if len(blk.Labels) != 0 {
				return node.Node{}, fmt.Errorf("%s: mixed labeled and unlabeled blocks", blk.DefRange())
			}
			n, err := bodyToNode(blk.Body)
			if err != nil {
				return node.Node{}, err
			}
			items = append(items, n)
		}
		if len(items) == 1 {
			return items[0], nil
		}
		return node.Array(items...), nil
	}

	root := map[string]any{}
	for _, blk := range blocks {
		if len(blk.Labels) == 0 {
			return node.Node{}, fmt.Errorf("%s: mixed labeled and unlabeled blocks", blk.DefRange())
		}
		n, err := bodyToNode(blk.Body)
		if err != nil {
			return node.Node{}, err
		}
		cur := root
		for _, l := range blk.Labels[:len(blk.Labels)-1] {
			next, ok := cur[l].(map[string]any)
			if !ok {
				if _, taken := cur[l]; taken {
					return node.Node{}, fmt.Errorf("%s: label %q used at different depths", blk.DefRange(), l)
				}
				next = map[string]any{}
				cur[l] = next
			}
			cur = next
		}
		last := blk.Labels[len(blk.Labels)-1]
		if _, dup := cur[last]; dup {
			return node.Node{}, fmt.Errorf("%s: duplicate block %q", blk.DefRange(), last)
		}
		cur[last] = n
	}
	return nestedToNode(root), nil
}

func nestedToNode(m map[string]any) node.Node {
	out := make(map[string]node.Node, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case node.Node:
			out[k] = x
		case map[string]any:
			out[k] = nestedToNode(x)
		}
	}
	return node.Object(out)
}

// CtyToNode converts an evaluated cty value. Null and unknown values become
// null; integral numbers keep their exact digits.
func CtyToNode(v cty.Value) (node.Node, error) {
	v, _ = v.Unmark()
	if v.IsNull() || !v.IsKnown() {
		return node.Null(), nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return node.String(v.AsString()), nil
	case ty == cty.Number:
		return numberToNode(v.AsBigFloat()), nil
	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return node.Node{}, fmt.Errorf("could not convert cty.Bool to bool: %w", err)
		}
		return node.Bool(b), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		items := make([]node.Node, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			n, err := CtyToNode(ev)
			if err != nil {
				return node.Node{}, err
			}
			items = append(items, n)
		}
		return node.Array(items...), nil
	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]node.Node, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			k, ev := it.Element()
			n, err := CtyToNode(ev)
			if err != nil {
				return node.Node{}, fmt.Errorf("in attribute '%s': %w", k.AsString(), err)
			}
			m[k.AsString()] = n
		}
		return node.Object(m), nil
	default:
		return node.Node{}, fmt.Errorf("unsupported cty type: %s", ty.FriendlyName())
	}
}

func numberToNode(bf *big.Float) node.Node {
	if bf.IsInt() {
		i, _ := bf.Int(nil)
		return node.Number(i.String())
	}
	f, _ := bf.Float64()
	return node.Float(f)
}
