package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("invalid_type", nil); msg == "invalid type" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

type upperTranslator struct{}

func (upperTranslator) Message(code string, data map[string]string) string {
	return "X:" + code + ":" + data["label"]
}

func TestTranslator_Custom(t *testing.T) {
	SetTranslator(upperTranslator{})
	defer SetTranslator(nil)

	if msg := T("override_missing_value", map[string]string{"label": "date"}); msg != "X:override_missing_value:date" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestTranslator_UnknownCodeFallsBackToCode(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := T("unresolvable_type", nil); msg == "unresolvable_type" {
		t.Fatalf("expected a human message for unresolvable_type")
	}
}
