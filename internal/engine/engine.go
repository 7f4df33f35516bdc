package engine

import (
	"errors"
	"io"

	"github.com/reoring/jsonbind/node"
	"github.com/reoring/jsonbind/source"
)

// ErrTrailingData reports input remaining after the top-level value.
var ErrTrailingData = errors.New("engine: trailing data after top-level value")

// DecodeNode builds a node tree from exactly one top-level value. Input left
// over after that value is an error.
func DecodeNode(src source.TokenSource) (node.Node, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return node.Node{}, io.ErrUnexpectedEOF
		}
		return node.Node{}, err
	}
	n, err := decodeValue(src, tok)
	if err != nil {
		return node.Node{}, err
	}
	if _, err := src.NextToken(); err == nil {
		return node.Node{}, ErrTrailingData
	} else if !errors.Is(err, io.EOF) {
		return node.Node{}, err
	}
	return n, nil
}

func decodeValue(src source.TokenSource, tok source.Token) (node.Node, error) {
	switch tok.Kind {
	case source.KindBeginObject:
		return decodeObject(src)
	case source.KindBeginArray:
		return decodeArray(src)
	case source.KindString:
		return node.String(tok.String), nil
	case source.KindNumber:
		return node.Number(tok.Number), nil
	case source.KindBool:
		return node.Bool(tok.Bool), nil
	case source.KindNull:
		return node.Null(), nil
	default:
		return node.Node{}, io.ErrUnexpectedEOF
	}
}

func decodeObject(src source.TokenSource) (node.Node, error) {
	m := make(map[string]node.Node)
	for {
		tok, err := src.NextToken()
		if err != nil {
			return node.Node{}, unexpectedEOF(err)
		}
		if tok.Kind == source.KindEndObject {
			return node.Object(m), nil
		}
		if tok.Kind != source.KindKey {
			return node.Node{}, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return node.Node{}, unexpectedEOF(err)
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return node.Node{}, err
		}
		// duplicate keys that survive enforcement: last one wins
		m[tok.String] = v
	}
}

func decodeArray(src source.TokenSource) (node.Node, error) {
	var arr []node.Node
	for {
		tok, err := src.NextToken()
		if err != nil {
			return node.Node{}, unexpectedEOF(err)
		}
		if tok.Kind == source.KindEndArray {
			return node.Array(arr...), nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return node.Node{}, err
		}
		arr = append(arr, v)
	}
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
