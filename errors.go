package jsonbind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/jsonbind/i18n"
	eng "github.com/reoring/jsonbind/internal/engine"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeParseError           = eng.CodeParseError
	CodeDuplicateKey         = eng.CodeDuplicateKey
	CodeTruncated            = eng.CodeTruncated
	CodeInvalidType          = "invalid_type"
	CodeOverrideMissingValue = "override_missing_value"
	CodeConversionFailed     = "conversion_failed"
	CodeUnresolvableType     = "unresolvable_type"
	CodeUnsupportedType      = "unsupported_type"
)

// Issue represents a single binding failure.
type Issue struct {
	Path    string // JSON Pointer of the offending document value (for example: /boss/employees/1/age).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected type, field label, etc.
	Cause   error  // Optional: underlying error.
}

// Issues is a collection of binding errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
	}
	if n := len(iss); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is/As can see through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func issueAt(path, code, hint string, cause error) Issue {
	return Issue{Path: rootPath(path), Code: code, Message: i18n.T(code, nil), Hint: hint, Cause: cause}
}

func singleIssue(path, code, hint string, cause error) Issues {
	return Issues{issueAt(path, code, hint, cause)}
}

func rootPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
