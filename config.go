package jsonbind

import "github.com/reoring/jsonbind/node"

// ConvertFunc is a user-supplied conversion for one field. It receives the
// raw document value (null when the document holds null) and the field label,
// and returns the value to assign. A nil result assigns the field's zero
// value; a non-nil error aborts the bind.
type ConvertFunc func(v node.Node, label string) (any, error)

// FailureMode selects how fatal binding conditions surface.
type FailureMode int

const (
	// FailPanic aborts the bind with a panic carrying Issues.
	FailPanic FailureMode = iota
	// FailReturn recovers fatal conditions at the entry point and returns them
	// as an Issues error.
	FailReturn
)

func (m FailureMode) String() string {
	switch m {
	case FailPanic:
		return "panic"
	case FailReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Config holds manual conversion overrides consulted by the binder.
//
// Registration is builder style; the last registration for a key wins and
// there is no removal. A Config must not be modified once it has been passed
// to a bind call. After that it is safe to share between goroutines.
// The nil *Config behaves as an empty configuration.
type Config struct {
	fieldOverrides map[string]ConvertFunc
	typeOverrides  map[string]ConvertFunc
	failureMode    FailureMode
}

// NewConfig returns an empty configuration.
func NewConfig() *Config {
	return &Config{
		fieldOverrides: map[string]ConvertFunc{},
		typeOverrides:  map[string]ConvertFunc{},
	}
}

// SetFieldOverride registers fn for every field labeled label, at any depth.
// Field overrides take precedence over everything else.
func (c *Config) SetFieldOverride(label string, fn ConvertFunc) *Config {
	if c.fieldOverrides == nil {
		c.fieldOverrides = map[string]ConvertFunc{}
	}
	c.fieldOverrides[label] = fn
	return c
}

// SetTypeOverride registers fn for every field whose resolved element type
// name equals typeName (for example "time.Time" or "models.Money").
func (c *Config) SetTypeOverride(typeName string, fn ConvertFunc) *Config {
	if c.typeOverrides == nil {
		c.typeOverrides = map[string]ConvertFunc{}
	}
	c.typeOverrides[typeName] = fn
	return c
}

// SetFailureMode selects how fatal conditions are reported.
func (c *Config) SetFailureMode(m FailureMode) *Config {
	c.failureMode = m
	return c
}

// FieldOverride returns the override registered for label.
func (c *Config) FieldOverride(label string) (ConvertFunc, bool) {
	if c == nil {
		return nil, false
	}
	fn, ok := c.fieldOverrides[label]
	return fn, ok && fn != nil
}

// TypeOverride returns the override registered for typeName.
func (c *Config) TypeOverride(typeName string) (ConvertFunc, bool) {
	if c == nil {
		return nil, false
	}
	fn, ok := c.typeOverrides[typeName]
	return fn, ok && fn != nil
}

// FailureMode reports the configured failure mode.
func (c *Config) FailureMode() FailureMode {
	if c == nil {
		return FailPanic
	}
	return c.failureMode
}
