// Package json tokenizes JSON with the standard library decoder. Select it
// with jsonbind.SetJSONDriver(jsonbind.StdlibJSONDriver()).
package json

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/reoring/jsonbind/source"
)

// Name identifies the driver.
const Name = "encoding/json"

type jsonSource struct {
	dec  *json.Decoder
	keys source.KeyTracker
}

// NewReader wraps an io.Reader into a source.TokenSource for JSON.
func NewReader(r io.Reader) source.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec}
}

// NewBytes wraps a byte slice into a source.TokenSource for JSON.
func NewBytes(b []byte) source.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (source.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return source.Token{}, err
	}
	off := s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
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
	case json.Number:
		s.keys.Value()
		return source.Token{Kind: source.KindNumber, Number: string(v), Offset: off}, nil
	case float64:
		s.keys.Value()
		return source.Token{Kind: source.KindNumber, Number: formatFloat(v), Offset: off}, nil
	}
	s.keys.Value()
	return source.Token{Kind: source.KindNull, Offset: off}, nil
}

func (s *jsonSource) Location() int64 { return s.dec.InputOffset() }

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
