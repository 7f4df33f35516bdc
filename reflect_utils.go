package jsonbind

import (
	"reflect"
	"strings"
	"sync"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// document label.
// Priority: jsonbind:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if bt := sf.Tag.Get("jsonbind"); bt != "" {
		if bt == "-" {
			return "-"
		}
		for _, p := range strings.Split(bt, ",") {
			p = strings.TrimSpace(p)
			if name, ok := strings.CutPrefix(p, "name="); ok {
				return name
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] != "" {
				return jt[:i]
			}
			return sf.Name
		}
		return jt
	}
	return sf.Name
}

// hasExplicitName reports whether a tag names the field. Tagged embedded
// structs are treated as ordinary fields rather than bases.
func hasExplicitName(sf reflect.StructField) bool {
	if bt := sf.Tag.Get("jsonbind"); strings.Contains(bt, "name=") {
		return true
	}
	jt := sf.Tag.Get("json")
	if i := strings.IndexByte(jt, ','); i >= 0 {
		jt = jt[:i]
	}
	return jt != "" && jt != "-"
}

// fieldDesc describes one declared field of a record type.
type fieldDesc struct {
	Label string
	Name  string       // Go field name
	Type  reflect.Type // declared type at the declaring level
	Owner reflect.Type // struct type that declares the field
	index []int        // path from the record root to the declaration
	depth int          // 0 for the record's own fields, +1 per embedding level
}

// recordDesc is the field table of a struct type.
//
// fields lists the record's own fields first, then the fields of each
// embedded struct in declaration order (depth first), i.e. from most derived
// to least derived. target maps a label to the storage a keyed assignment
// writes: the shallowest declaration carrying that label.
type recordDesc struct {
	typ    reflect.Type
	fields []fieldDesc
	target map[string][]int
}

var recordDescs sync.Map // reflect.Type -> *recordDesc

func describe(rt reflect.Type) *recordDesc {
	if v, ok := recordDescs.Load(rt); ok {
		return v.(*recordDesc)
	}
	rd := &recordDesc{typ: rt, target: map[string][]int{}}
	collectFields(rt, nil, 0, rd)
	best := map[string]int{}
	for _, fd := range rd.fields {
		if d, seen := best[fd.Label]; !seen || fd.depth < d {
			best[fd.Label] = fd.depth
			rd.target[fd.Label] = fd.index
		}
	}
	v, _ := recordDescs.LoadOrStore(rt, rd)
	return v.(*recordDesc)
}

func collectFields(rt reflect.Type, prefix []int, depth int, rd *recordDesc) {
	var bases []reflect.StructField
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Anonymous && !hasExplicitName(sf) {
			bt := sf.Type
			if bt.Kind() == reflect.Pointer {
				if !sf.IsExported() {
					continue // cannot allocate through an unexported pointer
				}
				bt = bt.Elem()
			}
			if bt.Kind() == reflect.Struct && !isTimeType(bt) {
				bases = append(bases, sf)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		label := ResolveStructKey(sf)
		if label == "-" || label == "" {
			continue
		}
		rd.fields = append(rd.fields, fieldDesc{
			Label: label,
			Name:  sf.Name,
			Type:  sf.Type,
			Owner: rt,
			index: appendIndex(prefix, i),
			depth: depth,
		})
	}
	for _, sf := range bases {
		bt := sf.Type
		if bt.Kind() == reflect.Pointer {
			bt = bt.Elem()
		}
		collectFields(bt, appendIndex(prefix, sf.Index[0]), depth+1, rd)
	}
}

func appendIndex(prefix []int, i int) []int {
	out := make([]int, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = i
	return out
}

// fieldSlot is the storage for one label on a struct value. Embedded pointer
// bases on the way are only allocated when a value is actually written.
type fieldSlot struct {
	rv    reflect.Value
	index []int
}

func (rd *recordDesc) slotFor(rv reflect.Value, label string) fieldSlot {
	return fieldSlot{rv: rv, index: rd.target[label]}
}

// get returns the settable field, allocating nil embedded bases.
func (s fieldSlot) get() reflect.Value { return fieldByIndexAlloc(s.rv, s.index) }

// clear zeroes the field. A field behind a nil embedded base is already
// zero and stays unallocated.
func (s fieldSlot) clear() {
	if f, ok := fieldByIndexRead(s.rv, s.index); ok {
		f.Set(reflect.Zero(f.Type()))
	}
}

// lookup returns the declaration a keyed assignment for label resolves to.
func (rd *recordDesc) lookup(label string) (fieldDesc, bool) {
	idx, ok := rd.target[label]
	if !ok {
		return fieldDesc{}, false
	}
	for _, fd := range rd.fields {
		if equalIndex(fd.index, idx) {
			return fd, true
		}
	}
	return fieldDesc{}, false
}

func fieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// fieldByIndexRead is the read-only counterpart; ok is false when a nil
// embedded pointer is on the path.
func fieldByIndexRead(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func equalIndex(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
