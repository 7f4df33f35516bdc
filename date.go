package jsonbind

import (
	"time"

	"github.com/reoring/jsonbind/node"
)

// DefaultDateLayout is the day/month/year layout (dd/MM/yyyy) used for date
// fields that have no override.
const DefaultDateLayout = "02/01/2006"

// parseDefaultDate converts a string node in DefaultDateLayout. Any other
// value means "no known format" and reports false.
func parseDefaultDate(v node.Node) (time.Time, bool) {
	s, ok := v.AsString()
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(DefaultDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
