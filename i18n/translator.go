// Package i18n holds the message templates used for validation issues.
// Templates are keyed by message ID (an issue code, optionally refined with a
// ".variant" suffix) and interpolate {name} and {value} placeholders.
package i18n

import "strings"

// Translator retrieves localized messages for message IDs.
// data provides the values substituted into the template's placeholders.
type Translator interface {
	Message(id string, data map[string]string) string
}

var messages = map[string]map[string]string{
	"en": {
		"required":                 "{name} is required.",
		"invalid_type":             "{name} has an invalid type.",
		"invalid_type.string":      "{name} must be a string.",
		"invalid_type.number":      "{name} must be a number.",
		"invalid_type.integer":     "{name} must be an integer.",
		"invalid_type.boolean":     "{name} must be a boolean.",
		"invalid_type.array":       "{name} must be a list.",
		"invalid_type.tuple":       "{name} must be a list.",
		"invalid_type.object":      "{name} must be an object.",
		"invalid_type.null":        "{name} must be null.",
		"too_short":                "{name} must be at least {value} characters.",
		"too_long":                 "{name} must be at most {value} characters.",
		"invalid_length":           "{name} must be exactly {value} characters.",
		"invalid_length.array":     "{name} must have exactly {value} items.",
		"too_small":                "{name} must be at least {value}.",
		"too_small.exclusive":      "{name} must be greater than {value}.",
		"too_big":                  "{name} must be at most {value}.",
		"too_big.exclusive":        "{name} must be less than {value}.",
		"too_small.date":           "{name} must be on or after {value}.",
		"too_small.date_exclusive": "{name} must be after {value}.",
		"too_big.date":             "{name} must be on or before {value}.",
		"too_big.date_exclusive":   "{name} must be before {value}.",
		"too_small.array":          "{name} must have at least {value} items.",
		"too_big.array":            "{name} must have at most {value} items.",
		"too_small.nonempty":       "{name} must not be empty.",
		"not_multiple_of":          "{name} must be a multiple of {value}.",
		"pattern":                  "{name} has an invalid format.",
		"invalid_enum":             "{name} is not a valid option.",
		"excluded_enum":            "{name} is not an allowed value.",
		"invalid_format":           "{name} has an invalid format.",
		"invalid_format.uuid":      "{name} must be a valid UUID.",
		"invalid_format.email":     "{name} must be a valid email address.",
		"invalid_format.ip":        "{name} must be a valid IP address.",
		"invalid_format.ipv4":      "{name} must be a valid IPv4 address.",
		"invalid_format.ipv6":      "{name} must be a valid IPv6 address.",
		"invalid_format.url":       "{name} must be a valid URL.",
		"invalid_format.time":      "{name} must be a valid time.",
		"invalid_format.base64":    "{name} must be a valid base64 string.",
		"invalid_date":             "{name} must be a valid date.",
		"invalid_date.date-time":   "{name} must be a valid date and time.",
		"includes":                 "{name} must include \"{value}\".",
		"excludes":                 "{name} must not include \"{value}\".",
		"starts_with":              "{name} must start with \"{value}\".",
		"ends_with":                "{name} must end with \"{value}\".",
		"not_unique":               "{name} must contain unique items.",
		"invalid_arity":            "{name} must have exactly {value} items.",
		"no_match":                 "{name} does not match any of the allowed options.",
		"ambiguous_match":          "{name} must match exactly one of the allowed options.",
		"parse_error":              "parse error",
		"fallback_name":            "Value",
	},
	"ja": {
		"required":             "{name}は必須です。",
		"invalid_type":         "{name}の型が不正です。",
		"invalid_type.string":  "{name}は文字列で入力してください。",
		"invalid_type.number":  "{name}は数値で入力してください。",
		"invalid_type.integer": "{name}は整数で入力してください。",
		"invalid_type.boolean": "{name}は真偽値で入力してください。",
		"invalid_type.array":   "{name}はリストで入力してください。",
		"invalid_type.tuple":   "{name}はリストで入力してください。",
		"invalid_type.object":  "{name}はオブジェクトで入力してください。",
		"too_short":            "{name}は{value}文字以上で入力してください。",
		"too_long":             "{name}は{value}文字以下で入力してください。",
		"invalid_length":       "{name}は{value}文字で入力してください。",
		"too_small":            "{name}は{value}以上で入力してください。",
		"too_small.exclusive":  "{name}は{value}より大きい値を入力してください。",
		"too_big":              "{name}は{value}以下で入力してください。",
		"too_big.exclusive":    "{name}は{value}より小さい値を入力してください。",
		"too_small.array":      "{name}は{value}件以上必要です。",
		"too_big.array":        "{name}は{value}件以下にしてください。",
		"too_small.nonempty":   "{name}を空にすることはできません。",
		"pattern":              "{name}の形式が正しくありません。",
		"invalid_enum":         "{name}は選択肢にない値です。",
		"invalid_format":       "{name}の形式が正しくありません。",
		"invalid_date":         "{name}は有効な日付で入力してください。",
		"includes":             "{name}には「{value}」を含めてください。",
		"excludes":             "{name}に「{value}」を含めることはできません。",
		"not_unique":           "{name}に重複した項目があります。",
		"no_match":             "{name}はいずれの条件にも一致しません。",
		"ambiguous_match":      "{name}は条件のうち一つだけに一致する必要があります。",
		"parse_error":          "解析エラー",
		"fallback_name":        "値",
	},
}

// dictTranslator is the built-in dictionary-based Translator. A missing
// variant falls back to its base code, then to the English table, then to the
// ID itself.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(id string, data map[string]string) string {
	return Interpolate(lookup(t.lang, id), data)
}

func lookup(lang, id string) string {
	base := id
	if i := strings.IndexByte(id, '.'); i >= 0 {
		base = id[:i]
	}
	for _, l := range []string{lang, "en"} {
		if s, ok := messages[l][id]; ok {
			return s
		}
		if s, ok := messages[l][base]; ok {
			return s
		}
	}
	return id
}

// Interpolate replaces every {key} in tpl with data[key]. Unknown
// placeholders are left as written.
func Interpolate(tpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tpl, "{") {
		return tpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// For returns the built-in Translator for lang. Languages other than "ja"
// get English.
func For(lang string) Translator {
	if lang != "ja" {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) { currentTranslator = For(lang) }

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// Current returns the Translator in use.
func Current() Translator { return currentTranslator }

// T fetches a message for the given ID using the current Translator.
func T(id string, data map[string]string) string { return currentTranslator.Message(id, data) }

// FallbackName is the label used in messages for nodes without a name.
func FallbackName() string { return T("fallback_name", nil) }
