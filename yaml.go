package jsonbind

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/jsonbind/internal/engine"
	"github.com/reoring/jsonbind/node"
)

// ParseYAML decodes the first YAML document in data and binds it into a
// fresh T, exactly as Parse does for JSON.
func ParseYAML[T any](ctx context.Context, data []byte, cfg *Config, opts ...ParseOpt) (*T, error) {
	n, err := DecodeYAML(data, opts...)
	if err != nil {
		return nil, err
	}
	return Bind[T](ctx, n, cfg)
}

// DecodeYAML converts the first YAML document in data into a document tree.
// Integers and floats become numbers, !!null becomes null, aliases are
// expanded and merge keys (<<) are applied. Timestamps stay strings so date
// fields see the same text a JSON document would carry.
//
// ParseOpt duplicate-key, depth and size limits apply as they do for JSON.
func DecodeYAML(data []byte, opts ...ParseOpt) (node.Node, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return node.Node{}, singleIssue("/", CodeTruncated, "max bytes exceeded", nil)
	}
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return node.Node{}, singleIssue("/", CodeParseError, "empty document", io.ErrUnexpectedEOF)
		}
		return node.Node{}, singleIssue("/", CodeParseError, "", err)
	}
	c := &yamlConverter{opt: opt}
	return c.convert(&root, "", 0)
}

type yamlConverter struct {
	opt ParseOpt

	decoded    int // nodes converted so far
	aliased    int // nodes converted while expanding an alias
	aliasDepth int
}

// allowedAliasRatio is the share of converted nodes that may come from alias
// expansion. Small documents get a lenient ratio, large ones a strict one.
func allowedAliasRatio(decoded int) float64 {
	switch {
	case decoded <= 400_000:
		return 0.99
	case decoded >= 4_000_000:
		return 0.10
	default:
		return 0.10 + 0.89*(1-float64(decoded-400_000)/3_600_000)
	}
}

// count tracks expansion and rejects documents whose aliases fan out far
// beyond their source size.
func (c *yamlConverter) count(path string) error {
	c.decoded++
	if c.aliasDepth > 0 {
		c.aliased++
	}
	if c.aliased > 100 && c.decoded > 1000 && float64(c.aliased)/float64(c.decoded) > allowedAliasRatio(c.decoded) {
		return singleIssue(path, CodeParseError, "excessive aliasing", nil)
	}
	return nil
}

func (c *yamlConverter) convert(n *yaml.Node, path string, depth int) (node.Node, error) {
	if err := c.count(path); err != nil {
		return node.Node{}, err
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return node.Null(), nil
		}
		return c.convert(n.Content[0], path, depth)
	case yaml.AliasNode:
		c.aliasDepth++
		defer func() { c.aliasDepth-- }()
		return c.convert(n.Alias, path, depth)
	case yaml.MappingNode:
		if err := c.checkDepth(path, depth+1); err != nil {
			return node.Node{}, err
		}
		m := make(map[string]node.Node, len(n.Content)/2)
		if err := c.fillMapping(m, n, path, depth+1, map[string]struct{}{}); err != nil {
			return node.Node{}, err
		}
		return node.Object(m), nil
	case yaml.SequenceNode:
		if err := c.checkDepth(path, depth+1); err != nil {
			return node.Node{}, err
		}
		items := make([]node.Node, 0, len(n.Content))
		for i, it := range n.Content {
			v, err := c.convert(it, path+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return node.Node{}, err
			}
			items = append(items, v)
		}
		return node.Array(items...), nil
	case yaml.ScalarNode:
		return yamlScalar(n, path)
	default:
		return node.Null(), nil
	}
}

// fillMapping copies the pairs of n into m. Explicit keys are recorded in
// seen; merged keys never override them.
func (c *yamlConverter) fillMapping(m map[string]node.Node, n *yaml.Node, path string, depth int, seen map[string]struct{}) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			merges = append(merges, v)
			continue
		}
		key := k.Value
		kpath := path + "/" + eng.EscapePointerToken(key)
		if _, dup := seen[key]; dup {
			if err := c.duplicate(key, kpath, k); err != nil {
				return err
			}
		}
		seen[key] = struct{}{}
		val, err := c.convert(v, kpath, depth)
		if err != nil {
			return err
		}
		m[key] = val
	}
	for _, mv := range merges {
		if err := c.fillMerge(m, mv, path, depth); err != nil {
			return err
		}
	}
	return nil
}

// fillMerge applies one merge value (a mapping or a sequence of mappings) to
// m without overriding keys already present.
func (c *yamlConverter) fillMerge(m map[string]node.Node, mv *yaml.Node, path string, depth int) error {
	if mv.Kind == yaml.AliasNode {
		c.aliasDepth++
		defer func() { c.aliasDepth-- }()
	}
	for mv.Kind == yaml.AliasNode {
		mv = mv.Alias
	}
	srcs := []*yaml.Node{mv}
	if mv.Kind == yaml.SequenceNode {
		srcs = mv.Content
	}
	for _, src := range srcs {
		if err := c.mergeSource(m, src, path, depth); err != nil {
			return err
		}
	}
	return nil
}

func (c *yamlConverter) mergeSource(m map[string]node.Node, src *yaml.Node, path string, depth int) error {
	if src.Kind == yaml.AliasNode {
		c.aliasDepth++
		defer func() { c.aliasDepth-- }()
	}
	for src.Kind == yaml.AliasNode {
		src = src.Alias
	}
	if src.Kind != yaml.MappingNode {
		return singleIssue(path, CodeParseError, fmt.Sprintf("line %d: merge value must be a mapping", src.Line), nil)
	}
	if err := c.count(path); err != nil {
		return err
	}
	tmp := map[string]node.Node{}
	if err := c.fillMapping(tmp, src, path, depth, map[string]struct{}{}); err != nil {
		return err
	}
	for k, v := range tmp {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return nil
}

func (c *yamlConverter) duplicate(key, path string, k *yaml.Node) error {
	is := issueAt(path, CodeDuplicateKey, fmt.Sprintf("key %q at %d:%d", key, k.Line, k.Column), nil)
	switch c.opt.Strictness.OnDuplicateKey {
	case Error:
		return Issues{is}
	case Warn:
		if c.opt.OnWarning != nil {
			c.opt.OnWarning(is)
		}
	}
	return nil
}

func (c *yamlConverter) checkDepth(path string, depth int) error {
	if c.opt.MaxDepth > 0 && depth > c.opt.MaxDepth {
		return singleIssue(path, CodeParseError, "max depth exceeded", nil)
	}
	return nil
}

func yamlScalar(n *yaml.Node, path string) (node.Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return node.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return node.Node{}, singleIssue(path, CodeParseError, "", err)
		}
		return node.Bool(b), nil
	case "!!int":
		var v any
		if err := n.Decode(&v); err != nil {
			return node.Node{}, singleIssue(path, CodeParseError, "", err)
		}
		switch x := v.(type) {
		case int:
			return node.Int(int64(x)), nil
		case int64:
			return node.Int(x), nil
		case uint64:
			return node.Uint(x), nil
		case float64:
			return node.Float(x), nil
		}
		return node.Number(strings.ReplaceAll(n.Value, "_", "")), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return node.Node{}, singleIssue(path, CodeParseError, "", err)
		}
		return node.Float(f), nil
	default:
		return node.String(n.Value), nil
	}
}

// WriteYAML renders v as a YAML document. Object keys are emitted in sorted
// order and numbers keep their literal text.
func WriteYAML(v any) ([]byte, error) {
	n, err := ToNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toYAMLNode(n)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toYAMLNode(n node.Node) *yaml.Node {
	switch n.Kind() {
	case node.KindBool:
		b, _ := n.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
	case node.KindNumber:
		num, _ := n.AsNumber()
		lit := num.String()
		tag := "!!int"
		if strings.ContainsAny(lit, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: lit}
	case node.KindString:
		s, _ := n.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case node.KindArray:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range n.Items() {
			out.Content = append(out.Content, toYAMLNode(it))
		}
		return out
	case node.KindObject:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range n.Keys() {
			v, _ := n.Get(k)
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				toYAMLNode(v))
		}
		return out
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
