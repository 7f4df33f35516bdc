package codec

import (
	"time"

	jsonbind "github.com/reoring/jsonbind"
)

// RFC3339 returns an override that converts RFC3339 strings (fractional
// seconds optional) into time.Time. Arrays of strings become []time.Time.
func RFC3339() jsonbind.ConvertFunc {
	return timeConverter(parseRFC3339)
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// FormatRFC3339 renders t in canonical form: UTC, RFC3339Nano with trailing
// zeros trimmed.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
