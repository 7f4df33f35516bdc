// Package node defines the generic document tree consumed by the binder.
//
// A Node is a tagged union over null, bool, number, string, array and
// object. Numbers keep their literal text so integer targets never lose
// precision. The zero Node is null.
package node

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Kind enumerates the node variants.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is an immutable document value.
type Node struct {
	kind Kind
	b    bool
	text string // string payload or number literal
	arr  []Node
	obj  map[string]Node
}

// Null returns the null node.
func Null() Node { return Node{} }

// Bool returns a boolean node.
func Bool(b bool) Node { return Node{kind: KindBool, b: b} }

// String returns a string node.
func String(s string) Node { return Node{kind: KindString, text: s} }

// Number returns a number node holding the literal text as-is. The caller is
// responsible for passing a valid JSON number literal.
func Number(lit string) Node { return Node{kind: KindNumber, text: lit} }

// Int returns a number node for an integer.
func Int(i int64) Node { return Number(strconv.FormatInt(i, 10)) }

// Uint returns a number node for an unsigned integer.
func Uint(u uint64) Node { return Number(strconv.FormatUint(u, 10)) }

// Float returns a number node using the shortest representation of f.
// NaN and infinities have no JSON form and become null.
func Float(f float64) Node {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// Array returns an array node. The slice is copied.
func Array(items ...Node) Node {
	arr := make([]Node, len(items))
	copy(arr, items)
	return Node{kind: KindArray, arr: arr}
}

// Object returns an object node. The map is copied.
func Object(fields map[string]Node) Node {
	m := make(map[string]Node, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return Node{kind: KindObject, obj: m}
}

func (n Node) Kind() Kind     { return n.kind }
func (n Node) IsNull() bool   { return n.kind == KindNull }
func (n Node) IsObject() bool { return n.kind == KindObject }
func (n Node) IsArray() bool  { return n.kind == KindArray }

// AsBool returns the boolean payload and whether n is a bool.
func (n Node) AsBool() (bool, bool) { return n.b, n.kind == KindBool }

// AsString returns the string payload and whether n is a string.
func (n Node) AsString() (string, bool) {
	if n.kind != KindString {
		return "", false
	}
	return n.text, true
}

// AsNumber returns the number literal and whether n is a number.
func (n Node) AsNumber() (json.Number, bool) {
	if n.kind != KindNumber {
		return "", false
	}
	return json.Number(n.text), true
}

// Int64 parses the number literal as a signed integer of the given bit size.
func (n Node) Int64(bitSize int) (int64, error) {
	if n.kind != KindNumber {
		return 0, fmt.Errorf("node: %s is not a number", n.kind)
	}
	return strconv.ParseInt(n.text, 10, bitSize)
}

// Uint64 parses the number literal as an unsigned integer of the given bit size.
func (n Node) Uint64(bitSize int) (uint64, error) {
	if n.kind != KindNumber {
		return 0, fmt.Errorf("node: %s is not a number", n.kind)
	}
	return strconv.ParseUint(n.text, 10, bitSize)
}

// Float64 parses the number literal as a float of the given bit size.
func (n Node) Float64(bitSize int) (float64, error) {
	if n.kind != KindNumber {
		return 0, fmt.Errorf("node: %s is not a number", n.kind)
	}
	return strconv.ParseFloat(n.text, bitSize)
}

// Len reports the number of elements of an array or entries of an object.
func (n Node) Len() int {
	switch n.kind {
	case KindArray:
		return len(n.arr)
	case KindObject:
		return len(n.obj)
	default:
		return 0
	}
}

// Items returns a copy of the array elements (nil for non-arrays).
func (n Node) Items() []Node {
	if n.kind != KindArray {
		return nil
	}
	out := make([]Node, len(n.arr))
	copy(out, n.arr)
	return out
}

// Index returns the i-th array element.
func (n Node) Index(i int) (Node, bool) {
	if n.kind != KindArray || i < 0 || i >= len(n.arr) {
		return Node{}, false
	}
	return n.arr[i], true
}

// Get looks up key in an object. The second result is false when n is not
// an object or the key is absent.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != KindObject {
		return Node{}, false
	}
	v, ok := n.obj[key]
	return v, ok
}

// Keys returns the object keys in sorted order.
func (n Node) Keys() []string {
	if n.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(n.obj))
	for k := range n.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports deep equality. Numbers compare by literal text.
func (n Node) Equal(o Node) bool {
	if n.kind != o.kind {
		return false
	}
	switch n.kind {
	case KindNull:
		return true
	case KindBool:
		return n.b == o.b
	case KindNumber, KindString:
		return n.text == o.text
	case KindArray:
		if len(n.arr) != len(o.arr) {
			return false
		}
		for i := range n.arr {
			if !n.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(n.obj) != len(o.obj) {
			return false
		}
		for k, v := range n.obj {
			ov, ok := o.obj[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Any converts n into the plain Go representation used by encoding/json:
// nil, bool, json.Number, string, []any, map[string]any.
func (n Node) Any() any {
	switch n.kind {
	case KindBool:
		return n.b
	case KindNumber:
		return json.Number(n.text)
	case KindString:
		return n.text
	case KindArray:
		out := make([]any, len(n.arr))
		for i, it := range n.arr {
			out[i] = it.Any()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.obj))
		for k, v := range n.obj {
			out[k] = v.Any()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON renders n as JSON text. Object keys are emitted sorted.
func (n Node) MarshalJSON() ([]byte, error) { return gojson.Marshal(n.Any()) }

// String renders n as compact JSON, for debugging.
func (n Node) String() string {
	b, err := n.MarshalJSON()
	if err != nil {
		return "<" + n.kind.String() + ">"
	}
	return string(b)
}
