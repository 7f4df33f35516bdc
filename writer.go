package jsonbind

import (
	"reflect"
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"

	eng "github.com/reoring/jsonbind/internal/engine"
	"github.com/reoring/jsonbind/node"
)

// ToNode converts a Go value into a document tree.
//
// Struct fields are emitted under their labels. When a derived struct and an
// embedded base declare the same label, the derived field is written. Nil
// pointers, slices and maps become null, time.Time is formatted with
// DefaultDateLayout and maps must have string keys. Channels, functions and
// complex numbers are rejected with unsupported_type.
func ToNode(v any) (node.Node, error) {
	if v == nil {
		return node.Null(), nil
	}
	if n, ok := v.(node.Node); ok {
		return n, nil
	}
	return toNode(reflect.ValueOf(v), "")
}

// Write renders v as compact JSON.
func Write(v any) ([]byte, error) {
	n, err := ToNode(v)
	if err != nil {
		return nil, err
	}
	return gojson.Marshal(n.Any())
}

// WriteIndent renders v as indented JSON.
func WriteIndent(v any, prefix, indent string) ([]byte, error) {
	n, err := ToNode(v)
	if err != nil {
		return nil, err
	}
	return gojson.MarshalIndent(n.Any(), prefix, indent)
}

var nodeType = reflect.TypeOf(node.Node{})

func toNode(rv reflect.Value, path string) (node.Node, error) {
	if !rv.IsValid() {
		return node.Null(), nil
	}
	if rv.Type() == nodeType && rv.CanInterface() {
		return rv.Interface().(node.Node), nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return node.Null(), nil
		}
		return toNode(rv.Elem(), path)
	case reflect.Bool:
		return node.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return node.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return node.Uint(rv.Uint()), nil
	case reflect.Float32:
		return node.Number(strconv.FormatFloat(rv.Float(), 'g', -1, 32)), nil
	case reflect.Float64:
		return node.Float(rv.Float()), nil
	case reflect.String:
		return node.String(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return node.Null(), nil
		}
		return sliceToNode(rv, path)
	case reflect.Array:
		return sliceToNode(rv, path)
	case reflect.Map:
		if rv.IsNil() {
			return node.Null(), nil
		}
		return mapToNode(rv, path)
	case reflect.Struct:
		if isTimeType(rv.Type()) {
			return node.String(rv.Interface().(time.Time).Format(DefaultDateLayout)), nil
		}
		return structToNode(rv, path)
	}
	return node.Node{}, singleIssue(path, CodeUnsupportedType, rv.Type().String(), nil)
}

func sliceToNode(rv reflect.Value, path string) (node.Node, error) {
	items := make([]node.Node, rv.Len())
	for i := range items {
		it, err := toNode(rv.Index(i), path+"/"+strconv.Itoa(i))
		if err != nil {
			return node.Node{}, err
		}
		items[i] = it
	}
	return node.Array(items...), nil
}

func mapToNode(rv reflect.Value, path string) (node.Node, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return node.Node{}, singleIssue(path, CodeUnsupportedType, "map key "+rv.Type().Key().String(), nil)
	}
	m := make(map[string]node.Node, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		v, err := toNode(iter.Value(), path+"/"+eng.EscapePointerToken(k))
		if err != nil {
			return node.Node{}, err
		}
		m[k] = v
	}
	return node.Object(m), nil
}

func structToNode(rv reflect.Value, path string) (node.Node, error) {
	rd := describe(rv.Type())
	m := make(map[string]node.Node, len(rd.target))
	for label, idx := range rd.target {
		fv, ok := fieldByIndexRead(rv, idx)
		if !ok {
			continue // nil embedded base
		}
		v, err := toNode(fv, path+"/"+eng.EscapePointerToken(label))
		if err != nil {
			return node.Node{}, err
		}
		m[label] = v
	}
	return node.Object(m), nil
}
