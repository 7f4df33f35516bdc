// Package gojson tokenizes JSON with github.com/goccy/go-json. It is the
// default driver used by jsonbind.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/reoring/jsonbind/source"
)

// Name identifies the driver.
const Name = "go-json"

type tokenizer struct {
	dec  *j.Decoder
	keys source.KeyTracker
}

// NewReader wraps an io.Reader into a source.TokenSource for JSON using go-json.
func NewReader(r io.Reader) source.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &tokenizer{dec: dec}
}

// NewBytes wraps a byte slice into a source.TokenSource for JSON using go-json.
func NewBytes(b []byte) source.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *tokenizer) NextToken() (source.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return source.Token{}, err
	}
	const off = -1
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.keys.Open(true)
			return source.Token{Kind: source.KindBeginObject, Offset: off}, nil
		case '[':
			s.keys.Open(false)
			return source.Token{Kind: source.KindBeginArray, Offset: off}, nil
		case '}':
			s.keys.Close()
			return source.Token{Kind: source.KindEndObject, Offset: off}, nil
		default:
			s.keys.Close()
			return source.Token{Kind: source.KindEndArray, Offset: off}, nil
		}
	case string:
		return source.Token{Kind: s.keys.String(), String: v, Offset: off}, nil
	case bool:
		s.keys.Value()
		return source.Token{Kind: source.KindBool, Bool: v, Offset: off}, nil
	case j.Number:
		s.keys.Value()
		return source.Token{Kind: source.KindNumber, Number: string(v), Offset: off}, nil
	case float64:
		s.keys.Value()
		return source.Token{Kind: source.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: off}, nil
	}
	s.keys.Value()
	return source.Token{Kind: source.KindNull, Offset: off}, nil
}

// Location is unknown for go-json's streaming decoder.
func (s *tokenizer) Location() int64 { return -1 }
