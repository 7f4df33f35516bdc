// Package source defines the token stream contract between JSON tokenizers
// and the node builder. Drivers live in subpackages: gojson (the default)
// and json (encoding/json).
package source

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string // Stored for key/string tokens.
	Number string // Number literal text.
	Bool   bool
	Offset int64 // Byte offset after the token; -1 when unknown.
}

// TokenSource yields tokens until io.EOF.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}
