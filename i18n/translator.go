package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_input_kind":
			return "ビルダー入力の種別が不正です"
		case "empty_key_list":
			return "キーリストが空です"
		case "keys_required":
			return "キーリストの明示指定が必要です"
		case "missing_schema":
			return "スキーマがありません"
		case "missing_constructor":
			return "コンストラクタがありません"
		case "unknown_key":
			return "未知のキーです"
		case "invalid_type":
			return "型が不正です"
		case "required":
			return "必須プロパティが不足しています"
		case "pattern":
			return "パターンに一致しません"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "parse_error":
			return "解析エラー"
		case "business_rule":
			return "ビジネスルール違反です"
		}
	default: // "en"
		switch code {
		case "invalid_input_kind":
			return "unsupported builder input"
		case "empty_key_list":
			return "empty key list"
		case "keys_required":
			return "explicit key list required"
		case "missing_schema":
			return "schema missing"
		case "missing_constructor":
			return "constructor missing"
		case "unknown_key":
			return "unknown key"
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required property missing"
		case "pattern":
			return "pattern mismatch"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "parse_error":
			return "parse error"
		case "business_rule":
			return "business rule violated"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
