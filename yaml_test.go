package jsonbind_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	jsonbind "github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/node"
)

const staffYAML = `
name: Anderson
age: 25
height: 1.85
date: 13/03/2017
defaults: &emp
  age: 20
employee:
  <<: *emp
  name: Jorge Xavier
boss:
  name: Thiago N.
  age: 55
  bad: true
  employees:
    - {name: Emp 1, age: 55}
    - name: Emp 2
      age: 35
`

func TestParseYAML_MatchesJSON(t *testing.T) {
	cfg := jsonbind.NewConfig().SetTypeOverride(jsonbind.DateTypeName, onlyDateKey)

	fromYAML, err := jsonbind.ParseYAML[TestObject](context.Background(), []byte(staffYAML), cfg)
	if err != nil {
		t.Fatalf("yaml parse err: %v", err)
	}
	fromJSON, err := jsonbind.Parse[TestObject](context.Background(), readFixture(t, "staff.json"), cfg)
	if err != nil {
		t.Fatalf("json parse err: %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Fatalf("yaml and json disagree (-json +yaml):\n%s", diff)
	}
}

func TestDecodeYAML_Scalars(t *testing.T) {
	n, err := jsonbind.DecodeYAML([]byte("a: ~\nb: 0x1F\nd: yes\ne: false\nf: '42'\ng: 2.50\n"))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	want := node.Object(map[string]node.Node{
		"a": node.Null(),
		"b": node.Int(31),
		"d": node.String("yes"),
		"e": node.Bool(false),
		"f": node.String("42"),
		"g": node.Float(2.5),
	})
	if !want.Equal(n) {
		t.Fatalf("unexpected tree: %s", n)
	}
}

func TestDecodeYAML_MergeDoesNotOverrideExplicitKeys(t *testing.T) {
	n, err := jsonbind.DecodeYAML([]byte("base: &b {x: 1, y: 2}\nchild:\n  <<: *b\n  y: 3\n"))
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	child, _ := n.Get("child")
	want := node.Object(map[string]node.Node{"x": node.Int(1), "y": node.Int(3)})
	if !want.Equal(child) {
		t.Fatalf("unexpected child: %s", child)
	}
}

func TestDecodeYAML_DuplicateKey(t *testing.T) {
	data := []byte("outer:\n  k: 1\n  k: 2\n")
	opt := jsonbind.ParseOpt{Strictness: jsonbind.Strictness{OnDuplicateKey: jsonbind.Error}}
	_, err := jsonbind.DecodeYAML(data, opt)
	if err == nil {
		t.Fatalf("expected duplicate key error")
	}
	expectIssue(t, err, jsonbind.CodeDuplicateKey, "/outer/k")
}

func TestDecodeYAML_Errors(t *testing.T) {
	if _, err := jsonbind.DecodeYAML([]byte("a: [1, 2")); !jsonbind.HasCode(err, jsonbind.CodeParseError) {
		t.Fatalf("expected parse_error, got %v", err)
	}
	if _, err := jsonbind.DecodeYAML(nil); !jsonbind.HasCode(err, jsonbind.CodeParseError) {
		t.Fatalf("expected parse_error for empty input, got %v", err)
	}
	_, err := jsonbind.DecodeYAML([]byte("a:\n  b:\n    c: 1\n"), jsonbind.ParseOpt{MaxDepth: 2})
	expectIssue(t, err, jsonbind.CodeParseError, "/a/b")
}

func TestParseYAML_TopLevelMustBeMapping(t *testing.T) {
	_, err := jsonbind.ParseYAML[Employee](context.Background(), []byte("- a\n- b\n"), nil)
	expectIssue(t, err, jsonbind.CodeInvalidType, "/")
}

// fanOutYAML builds levels of 10-way alias lists, each referencing the
// previous level, so the expanded tree has 10^levels leaves.
func fanOutYAML(levels int) []byte {
	var b strings.Builder
	b.WriteString("a0: &a0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= levels; i++ {
		ref := fmt.Sprintf("*a%d", i-1)
		fmt.Fprintf(&b, "a%d: &a%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(ref+", ", 10), ", "))
	}
	return []byte(b.String())
}

func TestDecodeYAML_ExcessiveAliasing(t *testing.T) {
	data := fanOutYAML(7)
	_, err := jsonbind.DecodeYAML(data, jsonbind.ParseOpt{MaxBytes: 4096, MaxDepth: 16})
	if !jsonbind.HasCode(err, jsonbind.CodeParseError) {
		t.Fatalf("expected parse_error for alias fan-out, got %v", err)
	}

	n, err := jsonbind.DecodeYAML(fanOutYAML(1))
	if err != nil {
		t.Fatalf("small alias use must pass: %v", err)
	}
	a1, _ := n.Get("a1")
	if len(a1.Items()) != 10 || len(a1.Items()[0].Items()) != 10 {
		t.Fatalf("unexpected expansion: %s", a1)
	}
}
