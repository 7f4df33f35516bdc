package node

import (
	"encoding/json"
	"fmt"
)

// FromAny converts a plain Go value tree (as produced by encoding/json,
// go-json or yaml.v3 decoding into any) into a Node. Maps keyed by any are
// accepted as long as every key is a string.
func FromAny(v any) (Node, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Node:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(string(t)), nil
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case []any:
		arr := make([]Node, len(t))
		for i, it := range t {
			n, err := FromAny(it)
			if err != nil {
				return Node{}, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = n
		}
		return Node{kind: KindArray, arr: arr}, nil
	case map[string]any:
		obj := make(map[string]Node, len(t))
		for k, it := range t {
			n, err := FromAny(it)
			if err != nil {
				return Node{}, fmt.Errorf("%s: %w", k, err)
			}
			obj[k] = n
		}
		return Node{kind: KindObject, obj: obj}, nil
	case map[any]any:
		obj := make(map[string]Node, len(t))
		for k, it := range t {
			ks, ok := k.(string)
			if !ok {
				return Node{}, fmt.Errorf("node: non-string object key %v (%T)", k, k)
			}
			n, err := FromAny(it)
			if err != nil {
				return Node{}, fmt.Errorf("%s: %w", ks, err)
			}
			obj[ks] = n
		}
		return Node{kind: KindObject, obj: obj}, nil
	default:
		return Node{}, fmt.Errorf("node: unsupported value of type %T", v)
	}
}

// MustFromAny is like FromAny but panics on error. Intended for literals in
// tests and examples.
func MustFromAny(v any) Node {
	n, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return n
}
