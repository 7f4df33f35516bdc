package jsonbind

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"time"

	eng "github.com/reoring/jsonbind/internal/engine"
	"github.com/reoring/jsonbind/node"
)

// strategy names the branch of the precedence chain taken for a field.
type strategy string

const (
	stratFieldOverride  strategy = "field_override"
	stratTypeOverride   strategy = "type_override"
	stratPrimitiveArray strategy = "primitive_array"
	stratPrimitive      strategy = "primitive"
	stratDate           strategy = "date"
	stratRecordArray    strategy = "record_array"
	stratRecord         strategy = "record"
	stratClear          strategy = "clear"
	stratSkip           strategy = "skip"
)

// binder carries the per-call state of one top-level bind. It is never
// shared between calls.
type binder struct {
	ctx   context.Context
	cfg   *Config
	log   *slog.Logger
	debug bool
}

func newBinder(ctx context.Context, cfg *Config) *binder {
	l := loggerFrom(ctx)
	return &binder{ctx: ctx, cfg: cfg, log: l, debug: l.Enabled(ctx, slog.LevelDebug)}
}

// fail aborts the bind. See run for how the panic surfaces.
func fail(path, code, hint string, cause error) {
	panic(singleIssue(path, code, hint, cause))
}

// bindRecord allocates a fresh *rt and populates it from obj.
func (b *binder) bindRecord(rt reflect.Type, obj node.Node, path string) reflect.Value {
	inst := reflect.New(rt)
	b.populate(inst.Elem(), obj, path)
	return inst
}

// populate assigns every declared field of rv, own fields first and then the
// fields of each embedded base. Assignments go through the label's shallowest
// declaration, so a base field processed later overwrites a derived field
// with the same label.
func (b *binder) populate(rv reflect.Value, obj node.Node, path string) {
	rd := describe(rv.Type())
	for _, fd := range rd.fields {
		v, present := obj.Get(fd.Label)
		ti := Resolve(fd.Type.String(), fd.Label, fd.Owner)
		dst := rd.slotFor(rv, fd.Label)
		fpath := path + "/" + eng.EscapePointerToken(fd.Label)
		st := b.bindField(dst, fd.Label, ti, v, present, fpath)
		if b.debug {
			b.log.DebugContext(b.ctx, "bind field",
				slog.String("path", fpath),
				slog.String("field", fd.Owner.Name()+"."+fd.Name),
				slog.String("type", ti.TypeName),
				slog.Bool("present", present),
				slog.String("strategy", string(st)))
		}
	}
}

func (b *binder) bindField(dst fieldSlot, label string, ti TypeInfo, v node.Node, present bool, path string) strategy {
	if fn, ok := b.cfg.FieldOverride(label); ok {
		b.applyOverride(dst, fn, label, v, present, path)
		return stratFieldOverride
	}
	if fn, ok := b.cfg.TypeOverride(ti.TypeName); ok {
		b.applyOverride(dst, fn, label, v, present, path)
		return stratTypeOverride
	}
	switch {
	case ti.IsPrimitive() && ti.IsArray:
		if !ti.IsOptional && !present {
			return stratSkip
		}
		if !present || v.IsNull() {
			dst.clear()
		} else {
			b.setPrimitiveSlice(dst.get(), v, path)
		}
		return stratPrimitiveArray
	case ti.IsPrimitive():
		if !ti.IsOptional && !present {
			return stratSkip
		}
		if !present || v.IsNull() {
			dst.clear()
		} else {
			b.setPrimitive(dst.get(), v, path)
		}
		return stratPrimitive
	case ti.IsDate():
		if !ti.IsOptional && !present {
			return stratSkip
		}
		b.setDate(dst, ti, v, path)
		return stratDate
	}
	if !present || v.IsNull() {
		dst.clear()
		return stratClear
	}
	if ti.IsArray {
		b.setRecordSlice(dst.get(), ti, v, path)
		return stratRecordArray
	}
	b.setRecord(dst.get(), ti, v, path)
	return stratRecord
}

func (b *binder) applyOverride(slot fieldSlot, fn ConvertFunc, label string, v node.Node, present bool, path string) {
	if !present {
		fail(path, CodeOverrideMissingValue, "label "+strconv.Quote(label), nil)
	}
	out, err := fn(v, label)
	if err != nil {
		fail(path, CodeConversionFailed, "label "+strconv.Quote(label), err)
	}
	if out == nil {
		slot.clear()
		return
	}
	val := reflect.ValueOf(out)
	dst := slot.get()
	if !assignValue(dst, val) {
		fail(path, CodeInvalidType, fmt.Sprintf("cannot assign %s to %s", val.Type(), dst.Type()), nil)
	}
}

// setPrimitive assigns a scalar without coercion: numbers go to numeric
// fields, strings to string fields, bools to bool fields. Null and absence
// reset the field.
func (b *binder) setPrimitive(dst reflect.Value, v node.Node, path string) {
	if v.IsNull() {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	base := derefType(dst.Type())
	val, ok := primitiveValue(v, base)
	if !ok || !assignValue(dst, val) {
		fail(path, CodeInvalidType, fmt.Sprintf("cannot assign %s to %s", v.Kind(), dst.Type()), nil)
	}
}

func (b *binder) setPrimitiveSlice(dst reflect.Value, v node.Node, path string) {
	if v.IsNull() {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	st := sliceType(dst.Type())
	if st == nil || !v.IsArray() {
		fail(path, CodeInvalidType, fmt.Sprintf("cannot assign %s to %s", v.Kind(), dst.Type()), nil)
	}
	items := v.Items()
	out := reflect.MakeSlice(st, len(items), len(items))
	for i, it := range items {
		b.setPrimitive(out.Index(i), it, path+"/"+strconv.Itoa(i))
	}
	if !assignValue(dst, out) {
		fail(path, CodeInvalidType, fmt.Sprintf("cannot assign %s to %s", st, dst.Type()), nil)
	}
}

// setDate converts a string in DefaultDateLayout. An unknown format, a
// non-string value or a collection of dates clears the field instead of
// failing.
func (b *binder) setDate(slot fieldSlot, ti TypeInfo, v node.Node, path string) {
	var t time.Time
	ok := false
	if !ti.IsArray {
		t, ok = parseDefaultDate(v)
	}
	if !ok {
		slot.clear()
		return
	}
	dst := slot.get()
	if !assignValue(dst, reflect.ValueOf(t)) {
		fail(path, CodeInvalidType, fmt.Sprintf("cannot assign time.Time to %s", dst.Type()), nil)
	}
}

func (b *binder) setRecord(dst reflect.Value, ti TypeInfo, v node.Node, path string) {
	if !ti.IsRecord() {
		fail(path, CodeUnresolvableType, ti.TypeName, nil)
	}
	if !v.IsObject() {
		fail(path, CodeInvalidType, fmt.Sprintf("expected object for %s, got %s", ti.TypeName, v.Kind()), nil)
	}
	inst := b.bindRecord(ti.Type, v, path)
	if !assignValue(dst, inst) {
		fail(path, CodeInvalidType, fmt.Sprintf("cannot assign %s to %s", inst.Type(), dst.Type()), nil)
	}
}

func (b *binder) setRecordSlice(dst reflect.Value, ti TypeInfo, v node.Node, path string) {
	if !ti.IsRecord() {
		fail(path, CodeUnresolvableType, ti.TypeName, nil)
	}
	st := sliceType(dst.Type())
	if st == nil || !v.IsArray() {
		fail(path, CodeInvalidType, fmt.Sprintf("expected array of %s, got %s", ti.TypeName, v.Kind()), nil)
	}
	items := v.Items()
	out := reflect.MakeSlice(st, len(items), len(items))
	for i, it := range items {
		ipath := path + "/" + strconv.Itoa(i)
		if it.IsNull() {
			continue
		}
		if !it.IsObject() {
			fail(ipath, CodeInvalidType, fmt.Sprintf("expected object for %s, got %s", ti.TypeName, it.Kind()), nil)
		}
		inst := b.bindRecord(ti.Type, it, ipath)
		if !assignValue(out.Index(i), inst) {
			fail(ipath, CodeInvalidType, fmt.Sprintf("cannot assign %s to %s", inst.Type(), st.Elem()), nil)
		}
	}
	if !assignValue(dst, out) {
		fail(path, CodeInvalidType, fmt.Sprintf("cannot assign %s to %s", st, dst.Type()), nil)
	}
}

// primitiveValue builds a value of the basic type t from v. ok is false when
// the node's shape does not match t's kind or the number does not fit.
func primitiveValue(v node.Node, t reflect.Type) (reflect.Value, bool) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		s, ok := v.AsString()
		if !ok {
			return reflect.Value{}, false
		}
		out.SetString(s)
	case reflect.Bool:
		bv, ok := v.AsBool()
		if !ok {
			return reflect.Value{}, false
		}
		out.SetBool(bv)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := v.Int64(t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := v.Uint64(t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := v.Float64(t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	default:
		return reflect.Value{}, false
	}
	return out, true
}

// assignValue stores val into dst using assignability, pointer
// wrapping/unwrapping, numeric or same-kind conversion, and element-wise
// slice conversion. It reports false when none applies.
func assignValue(dst, val reflect.Value) bool {
	dt := dst.Type()
	if !val.IsValid() {
		dst.Set(reflect.Zero(dt))
		return true
	}
	vt := val.Type()
	switch {
	case vt.AssignableTo(dt):
		dst.Set(val)
		return true
	case vt.Kind() == reflect.Interface || vt.Kind() == reflect.Pointer:
		if val.IsNil() {
			dst.Set(reflect.Zero(dt))
			return true
		}
		if dt.Kind() != reflect.Pointer || vt.Kind() == reflect.Interface {
			return assignValue(dst, val.Elem())
		}
	}
	if dt.Kind() == reflect.Pointer {
		elem := reflect.New(dt.Elem())
		if !assignValue(elem.Elem(), val) {
			return false
		}
		dst.Set(elem)
		return true
	}
	if vt.ConvertibleTo(dt) && compatibleKinds(vt.Kind(), dt.Kind()) {
		dst.Set(val.Convert(dt))
		return true
	}
	if vt.Kind() == reflect.Slice && dt.Kind() == reflect.Slice {
		out := reflect.MakeSlice(dt, val.Len(), val.Len())
		for i := 0; i < val.Len(); i++ {
			if !assignValue(out.Index(i), val.Index(i)) {
				return false
			}
		}
		dst.Set(out)
		return true
	}
	return false
}

func compatibleKinds(a, b reflect.Kind) bool {
	return a == b || (isNumericKind(a) && isNumericKind(b))
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// sliceType returns the slice type behind any pointers of t, or nil.
func sliceType(t reflect.Type) reflect.Type {
	t = derefType(t)
	if t.Kind() != reflect.Slice {
		return nil
	}
	return t
}
