package jsonbind

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/reoring/jsonbind/node"
)

// ErrNilTarget is returned by BindInto when dst is not a non-nil pointer to
// a struct.
var ErrNilTarget = errors.New("jsonbind: target must be a non-nil pointer to a struct")

// Bind populates a fresh T from the object n. T must be a struct type.
//
// Each declared field is assigned by the first applicable rule: field
// override, type override, primitive array, primitive, date, then nested
// record or array of records. Record-valued fields absent from n are reset to
// their zero value.
//
// A non-object n yields (nil, invalid_type at "/"). Fatal conditions inside
// the tree panic with Issues unless cfg selects FailReturn.
func Bind[T any](ctx context.Context, n node.Node, cfg *Config) (*T, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, singleIssue("/", CodeUnsupportedType, rt.String(), nil)
	}
	if !n.IsObject() {
		return nil, singleIssue("/", CodeInvalidType, fmt.Sprintf("expected object, got %s", n.Kind()), nil)
	}
	var out *T
	err := run(ctx, cfg, func(b *binder) {
		out = b.bindRecord(rt, n, "").Interface().(*T)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BindInto populates the struct dst points to from the object n. Fields the
// document does not mention keep their current values, except record-valued
// fields, which are cleared.
func BindInto(ctx context.Context, dst any, n node.Node, cfg *Config) error {
	rv := reflect.ValueOf(dst)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNilTarget
	}
	if !n.IsObject() {
		return singleIssue("/", CodeInvalidType, fmt.Sprintf("expected object, got %s", n.Kind()), nil)
	}
	return run(ctx, cfg, func(b *binder) {
		b.populate(rv.Elem(), n, "")
	})
}

// run executes fn with a fresh binder. Under FailReturn an Issues panic is
// recovered and returned; any other panic propagates.
func run(ctx context.Context, cfg *Config, fn func(*binder)) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if cfg.FailureMode() == FailReturn {
		defer func() {
			if r := recover(); r != nil {
				iss, ok := r.(Issues)
				if !ok {
					panic(r)
				}
				err = iss
			}
		}()
	}
	fn(newBinder(ctx, cfg))
	return nil
}
