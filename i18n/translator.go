package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "label").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "parse_error":
			return "解析エラー"
		case "duplicate_key":
			return "キーが重複しています"
		case "truncated":
			return "打ち切られました"
		case "invalid_type":
			return "型が不正です"
		case "override_missing_value":
			return "上書き変換に対応する値がありません"
		case "conversion_failed":
			return "上書き変換に失敗しました"
		case "unresolvable_type":
			return "型を解決できません"
		case "unsupported_type":
			return "サポートされていない型です"
		}
	default: // "en"
		switch code {
		case "parse_error":
			return "parse error"
		case "duplicate_key":
			return "duplicate key"
		case "truncated":
			return "truncated"
		case "invalid_type":
			return "invalid type"
		case "override_missing_value":
			return "override registered but value missing"
		case "conversion_failed":
			return "override conversion failed"
		case "unresolvable_type":
			return "type cannot be resolved to a record"
		case "unsupported_type":
			return "unsupported type"
		}
	}
	return code
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
