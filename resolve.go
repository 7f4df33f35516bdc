package jsonbind

import (
	"reflect"
	"strings"
	"sync"
	"time"
)

// DateTypeName is the textual name of the recognized date type.
const DateTypeName = "time.Time"

var timeType = reflect.TypeOf(time.Time{})

func isTimeType(t reflect.Type) bool { return t == timeType }

var primitiveTypes = map[string]reflect.Type{
	"int":     reflect.TypeOf(int(0)),
	"int8":    reflect.TypeOf(int8(0)),
	"int16":   reflect.TypeOf(int16(0)),
	"int32":   reflect.TypeOf(int32(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"uint":    reflect.TypeOf(uint(0)),
	"uint8":   reflect.TypeOf(uint8(0)),
	"uint16":  reflect.TypeOf(uint16(0)),
	"uint32":  reflect.TypeOf(uint32(0)),
	"uint64":  reflect.TypeOf(uint64(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
	"bool":    reflect.TypeOf(false),
	"string":  reflect.TypeOf(""),
}

// TypeInfo describes a field's effective element type.
type TypeInfo struct {
	TypeName   string       // innermost element type name, e.g. "int" or "models.Employee"
	IsArray    bool         // declared as a collection of TypeName
	IsOptional bool         // declared as accepting absence
	Type       reflect.Type // resolved element type; nil when unresolvable
}

// IsPrimitive reports whether the element type is an integer, float, bool
// or string (including named types over those kinds).
func (ti TypeInfo) IsPrimitive() bool {
	if _, ok := primitiveTypes[ti.TypeName]; ok {
		return true
	}
	return ti.Type != nil && isPrimitiveKind(ti.Type.Kind())
}

// IsDate reports whether the element type is time.Time.
func (ti TypeInfo) IsDate() bool {
	return ti.TypeName == DateTypeName || (ti.Type != nil && isTimeType(ti.Type))
}

// IsRecord reports whether the element type resolved to a struct that the
// binder can instantiate.
func (ti TypeInfo) IsRecord() bool {
	return ti.Type != nil && ti.Type.Kind() == reflect.Struct && !ti.IsDate()
}

func isPrimitiveKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool, reflect.String:
		return true
	}
	return false
}

// ParseTypeString splits a Go type string into its innermost element name
// and the collection/optional markers wrapping it. "*" marks optional and
// "[]" marks a collection; both may be combined in any order.
//
//	ParseTypeString("[]*models.Employee") // "models.Employee", true, true
func ParseTypeString(s string) (elem string, isArray, isOptional bool) {
	s = strings.TrimSpace(s)
	for {
		switch {
		case strings.HasPrefix(s, "*"):
			isOptional = true
			s = s[1:]
		case strings.HasPrefix(s, "[]"):
			isArray = true
			s = s[2:]
		default:
			return s, isArray, isOptional
		}
	}
}

// Resolve derives the TypeInfo of the field labeled fieldLabel, declared on
// owner with the textual type fieldTypeName.
//
// Primitive names, time.Time and registered record names resolve from the
// text alone. Any other name falls back to owner's declared field type.
func Resolve(fieldTypeName, fieldLabel string, owner reflect.Type) TypeInfo {
	elem, isArray, isOptional := ParseTypeString(fieldTypeName)
	ti := TypeInfo{TypeName: elem, IsArray: isArray, IsOptional: isOptional}
	if t, ok := primitiveTypes[elem]; ok {
		ti.Type = t
		return ti
	}
	if elem == DateTypeName {
		ti.Type = timeType
		return ti
	}
	if t, ok := lookupRecord(elem); ok {
		ti.Type = t
		return ti
	}
	ti.Type = declaredElemType(owner, fieldLabel)
	return ti
}

func declaredElemType(owner reflect.Type, label string) reflect.Type {
	for owner != nil && owner.Kind() == reflect.Pointer {
		owner = owner.Elem()
	}
	if owner == nil || owner.Kind() != reflect.Struct {
		return nil
	}
	fd, ok := describe(owner).lookup(label)
	if !ok {
		return nil
	}
	t := fd.Type
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t
}

var (
	recordMu sync.RWMutex
	records  = map[string]reflect.Type{}
)

// RegisterRecord makes T resolvable by name (reflect's "pkg.Name" form)
// without consulting the declaring struct.
func RegisterRecord[T any]() {
	RegisterRecordType(reflect.TypeOf((*T)(nil)).Elem())
}

// RegisterRecordType is the reflect.Type form of RegisterRecord. Pointer types
// register their element; non-struct types are ignored.
func RegisterRecordType(t reflect.Type) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return
	}
	recordMu.Lock()
	records[t.String()] = t
	recordMu.Unlock()
}

func lookupRecord(name string) (reflect.Type, bool) {
	recordMu.RLock()
	t, ok := records[name]
	recordMu.RUnlock()
	return t, ok
}
