package jsonbind_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"

	jsonbind "github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/i18n"
)

func TestParse_StaffDocument(t *testing.T) {
	cfg := jsonbind.NewConfig().SetTypeOverride(jsonbind.DateTypeName, onlyDateKey)

	got, err := jsonbind.Parse[TestObject](context.Background(), readFixture(t, "staff.json"), cfg)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got.Name == nil || *got.Name != "Anderson" || got.Age != 25 || got.Height != float32(1.85) {
		t.Fatalf("unexpected top-level fields: %s", spew.Sdump(got))
	}
	if !got.Date.Equal(time.Date(2017, 3, 13, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", got.Date)
	}
	if diff := cmp.Diff(&Employee{Name: "Jorge Xavier", Age: 20}, got.Employee); diff != "" {
		t.Fatalf("employee mismatch (-want +got):\n%s", diff)
	}
	want := &Boss{
		Employee:  Employee{Name: "Thiago N.", Age: 55},
		Bad:       true,
		Employees: []*Employee{{Name: "Emp 1", Age: 55}, {Name: "Emp 2", Age: 35}},
	}
	if diff := cmp.Diff(want, got.Boss); diff != "" {
		t.Fatalf("boss mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"truncated":   `{"name":"Anderson"`,
		"bad token":   `{"name":}`,
		"empty":       ``,
		"trailing":    `{} {}`,
		"not closing": `[`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := jsonbind.Parse[TestObject](context.Background(), []byte(in), nil)
			if got != nil {
				t.Fatalf("expected nil result, got %s", spew.Sdump(got))
			}
			if !jsonbind.HasCode(err, jsonbind.CodeParseError) {
				t.Fatalf("expected parse_error, got %v", err)
			}
		})
	}
}

func TestParse_TopLevelMustBeObject(t *testing.T) {
	for _, in := range []string{`[1,2]`, `"x"`, `42`, `null`, `true`} {
		got, err := jsonbind.Parse[TestObject](context.Background(), []byte(in), nil)
		if got != nil {
			t.Fatalf("%s: expected nil result", in)
		}
		iss, ok := jsonbind.AsIssues(err)
		if !ok || iss[0].Code != jsonbind.CodeInvalidType || iss[0].Path != "/" {
			t.Fatalf("%s: expected invalid_type at /, got %v", in, err)
		}
	}
}

func TestSafeParse(t *testing.T) {
	if v, ok := jsonbind.SafeParse[Employee](context.Background(), []byte(`{"name":"Mia"}`), nil); !ok || v.Name != "Mia" {
		t.Fatalf("expected success, got ok=%v v=%v", ok, v)
	}
	if v, ok := jsonbind.SafeParse[Employee](context.Background(), []byte(`{`), nil); ok || v != nil {
		t.Fatalf("expected absence for malformed input")
	}
}

func TestParseReader(t *testing.T) {
	got, err := jsonbind.ParseReader[Employee](context.Background(), strings.NewReader(`{"name":"Mia","age":31}`), nil)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if diff := cmp.Diff(&Employee{Name: "Mia", Age: 31}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := jsonbind.Parse[Employee](ctx, []byte(`{"name":"Mia"}`), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParse_DuplicateKey_Error(t *testing.T) {
	opt := jsonbind.ParseOpt{Strictness: jsonbind.Strictness{OnDuplicateKey: jsonbind.Error}}
	_, err := jsonbind.Parse[Employee](context.Background(), []byte(`{"name":"a","name":"b"}`), nil, opt)
	iss, ok := jsonbind.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got: %v", err)
	}
	if iss[0].Code != jsonbind.CodeDuplicateKey || iss[0].Path != "/name" {
		t.Fatalf("expected duplicate_key at /name, got: %v", iss)
	}
}

func TestParse_DuplicateKey_NestedPath(t *testing.T) {
	opt := jsonbind.ParseOpt{Strictness: jsonbind.Strictness{OnDuplicateKey: jsonbind.Error}}
	_, err := jsonbind.Parse[Boss](context.Background(), []byte(`{"employees":[{"age":1,"age":2}]}`), nil, opt)
	iss, ok := jsonbind.AsIssues(err)
	if !ok || iss[0].Path != "/employees/0/age" {
		t.Fatalf("expected path=/employees/0/age, got: %v", err)
	}
}

func TestParse_DuplicateKey_WarnAndIgnore(t *testing.T) {
	var warned []jsonbind.Issue
	opt := jsonbind.ParseOpt{
		Strictness: jsonbind.Strictness{OnDuplicateKey: jsonbind.Warn},
		OnWarning:  func(is jsonbind.Issue) { warned = append(warned, is) },
	}
	got, err := jsonbind.Parse[Employee](context.Background(), []byte(`{"name":"a","name":"b"}`), nil, opt)
	if err != nil {
		t.Fatalf("warn mode must not fail: %v", err)
	}
	if got.Name != "b" {
		t.Fatalf("expected last value to win, got %q", got.Name)
	}
	if len(warned) != 1 || warned[0].Code != jsonbind.CodeDuplicateKey {
		t.Fatalf("expected one duplicate_key warning, got %v", warned)
	}

	got, err = jsonbind.Parse[Employee](context.Background(), []byte(`{"name":"a","name":"b"}`), nil)
	if err != nil || got.Name != "b" {
		t.Fatalf("default policy: err=%v name=%q", err, got.Name)
	}
}

func TestParse_MaxDepth_Exceeded(t *testing.T) {
	// depth = 3 for { boss: { employees: [ ... ] } }
	data := []byte(`{"boss":{"employees":[{"name":"x"}]}}`)
	_, err := jsonbind.Parse[TestObject](context.Background(), data, nil, jsonbind.ParseOpt{MaxDepth: 2})
	iss, ok := jsonbind.AsIssues(err)
	if !ok || iss[0].Path != "/boss/employees" {
		t.Fatalf("expected path=/boss/employees for max depth, got: %v", err)
	}
	if _, err := jsonbind.Parse[TestObject](context.Background(), data, nil, jsonbind.ParseOpt{MaxDepth: 4}); err != nil {
		t.Fatalf("depth 4 should pass: %v", err)
	}
}

func TestParse_MaxBytes_Exceeded(t *testing.T) {
	data := append([]byte(`{"name":"x"}`), bytes.Repeat([]byte(" "), 1024)...)
	opt := jsonbind.ParseOpt{MaxBytes: 16}

	_, err := jsonbind.Parse[Employee](context.Background(), data, nil, opt)
	if !jsonbind.HasCode(err, jsonbind.CodeTruncated) {
		t.Fatalf("expected truncated issue, got: %v", err)
	}
	_, err = jsonbind.ParseReader[Employee](context.Background(), bytes.NewReader(data), nil, opt)
	if !jsonbind.HasCode(err, jsonbind.CodeTruncated) {
		t.Fatalf("expected truncated issue from reader, got: %v", err)
	}
}

func TestJSONDrivers_SameTree(t *testing.T) {
	data := readFixture(t, "staff.json")
	defer jsonbind.UseDefaultJSONDriver()

	if got := jsonbind.CurrentJSONDriver().Name(); got != "go-json" {
		t.Fatalf("unexpected default driver: %s", got)
	}
	a, err := jsonbind.DecodeJSON(data)
	if err != nil {
		t.Fatalf("go-json decode: %v", err)
	}

	jsonbind.SetJSONDriver(jsonbind.StdlibJSONDriver())
	if got := jsonbind.CurrentJSONDriver().Name(); got != "encoding/json" {
		t.Fatalf("driver not switched: %s", got)
	}
	b, err := jsonbind.DecodeJSON(data)
	if err != nil {
		t.Fatalf("encoding/json decode: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("drivers disagree:\n%s\n%s", a, b)
	}

	jsonbind.SetJSONDriver(nil) // ignored
	if got := jsonbind.CurrentJSONDriver().Name(); got != "encoding/json" {
		t.Fatalf("nil driver must be ignored, got %s", got)
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := jsonbind.Issues{
		{Path: "/a", Code: jsonbind.CodeInvalidType, Hint: "expected int"},
		{Path: "/b", Code: jsonbind.CodeConversionFailed},
		{Path: "/c", Code: jsonbind.CodeUnresolvableType},
		{Path: "/d", Code: jsonbind.CodeOverrideMissingValue},
	}
	s := iss.Error()
	if !strings.HasPrefix(s, "invalid_type at /a (expected int)") || !strings.Contains(s, "total 4") {
		t.Fatalf("unexpected summary: %s", s)
	}
}

func TestIssues_UnwrapCause(t *testing.T) {
	sentinel := errors.New("boom")
	err := error(jsonbind.Issues{{Path: "/x", Code: jsonbind.CodeConversionFailed, Cause: sentinel}})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
}

func TestParse_EnforcementIssuesAreTranslated(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")

	opt := jsonbind.ParseOpt{Strictness: jsonbind.Strictness{OnDuplicateKey: jsonbind.Error}}
	_, err := jsonbind.Parse[Employee](context.Background(), []byte(`{"name":"a","name":"b"}`), nil, opt)
	iss, ok := jsonbind.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Message != i18n.T(jsonbind.CodeDuplicateKey, nil) || !strings.Contains(iss[0].Hint, "'name'") {
		t.Fatalf("unexpected message/hint: %+v", iss[0])
	}

	_, err = jsonbind.Parse[TestObject](context.Background(), []byte(`{"boss":{"employees":[]}}`), nil, jsonbind.ParseOpt{MaxDepth: 1})
	iss, ok = jsonbind.AsIssues(err)
	if !ok || iss[0].Message != i18n.T(jsonbind.CodeParseError, nil) || iss[0].Hint != "max depth exceeded" {
		t.Fatalf("unexpected depth issue: %v", err)
	}

	var warned []jsonbind.Issue
	opt = jsonbind.ParseOpt{
		Strictness: jsonbind.Strictness{OnDuplicateKey: jsonbind.Warn},
		OnWarning:  func(is jsonbind.Issue) { warned = append(warned, is) },
	}
	if _, err := jsonbind.Parse[Employee](context.Background(), []byte(`{"age":1,"age":2}`), nil, opt); err != nil {
		t.Fatalf("warn mode must not fail: %v", err)
	}
	if len(warned) != 1 || warned[0].Message != i18n.T(jsonbind.CodeDuplicateKey, nil) || warned[0].Path != "/age" {
		t.Fatalf("unexpected warning: %v", warned)
	}
}
