package jsonbind

import (
	"bytes"
	"context"
	"errors"
	"io"

	eng "github.com/reoring/jsonbind/internal/engine"
	"github.com/reoring/jsonbind/node"
	"github.com/reoring/jsonbind/source"
)

// Parse decodes JSON text and binds the top-level object into a fresh T,
// which must be a struct type.
//
// Malformed input and a non-object top level yield a nil result together
// with an Issues error. Fatal binding conditions panic unless cfg selects
// FailReturn.
func Parse[T any](ctx context.Context, data []byte, cfg *Config, opts ...ParseOpt) (*T, error) {
	n, err := DecodeJSON(data, opts...)
	if err != nil {
		return nil, err
	}
	return Bind[T](ctx, n, cfg)
}

// ParseReader is Parse over an io.Reader. When MaxBytes is set the size cap
// is enforced before tokenizing.
func ParseReader[T any](ctx context.Context, r io.Reader, cfg *Config, opts ...ParseOpt) (*T, error) {
	n, err := DecodeJSONReader(r, opts...)
	if err != nil {
		return nil, err
	}
	return Bind[T](ctx, n, cfg)
}

// SafeParse is Parse reporting failures as absence: (nil, false).
func SafeParse[T any](ctx context.Context, data []byte, cfg *Config, opts ...ParseOpt) (*T, bool) {
	v, err := Parse[T](ctx, data, cfg, opts...)
	if err != nil {
		return nil, false
	}
	return v, true
}

// DecodeJSON tokenizes data with the current JSON driver and builds the
// document tree.
func DecodeJSON(data []byte, opts ...ParseOpt) (node.Node, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return node.Node{}, singleIssue("/", CodeTruncated, "max bytes exceeded", nil)
	}
	return decodeFromSource(CurrentJSONDriver().NewBytes(data), opt)
}

// DecodeJSONReader is DecodeJSON over an io.Reader.
func DecodeJSONReader(r io.Reader, opts ...ParseOpt) (node.Node, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return node.Node{}, singleIssue("/", CodeParseError, "", err)
		}
		if int64(len(data)) > opt.MaxBytes {
			return node.Node{}, singleIssue("/", CodeTruncated, "max bytes exceeded", nil)
		}
		r = bytes.NewReader(data)
	}
	return decodeFromSource(CurrentJSONDriver().NewReader(r), opt)
}

// DecodeSource builds the document tree from an arbitrary token source.
func DecodeSource(src source.TokenSource, opts ...ParseOpt) (node.Node, error) {
	return decodeFromSource(src, lastOpt(opts))
}

// ---- helpers (parse options, decode, error mapping) ----

func lastOpt(opts []ParseOpt) ParseOpt {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return opt
}

func decodeFromSource(src source.TokenSource, opt ParseOpt) (node.Node, error) {
	var sink func(eng.SimpleIssue)
	if opt.OnWarning != nil {
		sink = func(si eng.SimpleIssue) {
			opt.OnWarning(issueAt(si.Path, si.Code, si.Message, nil))
		}
	}
	enforced := eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
	})
	n, err := eng.DecodeNode(enforced)
	if err != nil {
		return node.Node{}, toIssues(err)
	}
	return n, nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

func toIssues(err error) Issues {
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return singleIssue(ie.Path, ie.Code, ie.Message, nil)
	}
	return singleIssue("/", CodeParseError, err.Error(), err)
}
