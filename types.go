package jsonbind

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Ignore (last value wins), Warn or Error.
}

// ParseOpt bundles document decoding options. All limits are disabled by
// default.
type ParseOpt struct {
	Strictness Strictness
	// MaxDepth caps container nesting; 0 means unlimited.
	MaxDepth int
	// MaxBytes caps the input size; 0 means unlimited.
	MaxBytes int64
	// OnWarning receives non-fatal issues such as duplicate keys in Warn mode.
	OnWarning func(Issue)
}
