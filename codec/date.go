// Package codec provides ready-made conversion overrides for jsonbind.Config.
package codec

import (
	"fmt"
	"time"

	jsonbind "github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/node"
)

// Date returns an override that parses strings with the given time layout.
// Null yields the zero value; arrays of strings become []time.Time.
//
//	cfg := jsonbind.NewConfig().
//		SetTypeOverride(jsonbind.DateTypeName, codec.Date("02/01/2006"))
func Date(layout string) jsonbind.ConvertFunc {
	return timeConverter(func(s string) (time.Time, error) {
		return time.Parse(layout, s)
	})
}

func timeConverter(parse func(string) (time.Time, error)) jsonbind.ConvertFunc {
	return func(v node.Node, label string) (any, error) {
		switch v.Kind() {
		case node.KindNull:
			return nil, nil
		case node.KindString:
			s, _ := v.AsString()
			t, err := parse(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", label, err)
			}
			return t, nil
		case node.KindArray:
			items := v.Items()
			out := make([]time.Time, len(items))
			for i, it := range items {
				s, ok := it.AsString()
				if !ok {
					if it.IsNull() {
						continue
					}
					return nil, fmt.Errorf("%s[%d]: expected string, got %s", label, i, it.Kind())
				}
				t, err := parse(s)
				if err != nil {
					return nil, fmt.Errorf("%s[%d]: %w", label, i, err)
				}
				out[i] = t
			}
			return out, nil
		default:
			return nil, fmt.Errorf("%s: expected string, got %s", label, v.Kind())
		}
	}
}
