package i18n

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Lang is a supported display language.
type Lang string

const (
	// EN is English, the fallback language.
	EN Lang = "en"
	// PT is Portuguese.
	PT Lang = "pt"
)

// Langs lists the supported languages in fallback order.
//
//nolint:gochecknoglobals // fixed language table
var Langs = []Lang{EN, PT}

// ParseLang maps a BCP 47 tag such as "pt-BR" to a supported Lang. Unknown or malformed tags fall back to English.
func ParseLang(tag string) (lang Lang) {
	lang = EN

	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return lang
	}

	base, _ := parsed.Base()
	if base.String() == string(PT) {
		lang = PT
	}
	return lang
}

// Tag returns the language tag used for locale-aware text handling.
func (l Lang) Tag() (tag language.Tag) {
	if l == PT {
		tag = language.Portuguese
		return tag
	}
	tag = language.English
	return tag
}

// Text carries parallel English and Portuguese strings.
type Text struct {
	EN string `json:"en" yaml:"en"`
	PT string `json:"pt" yaml:"pt"`
}

// New builds a Text from a primary (English) string and an optional Portuguese one.
// The Portuguese value defaults to the English one.
func New(primary string, secondary ...string) (text Text) {
	text = Text{EN: primary, PT: primary}
	if len(secondary) > 0 && secondary[0] != "" {
		text.PT = secondary[0]
	}
	return text
}

// Plain wraps an untranslated legacy string.
func Plain(s string) (text Text) {
	text = Text{EN: s, PT: s}
	return text
}

// Resolve returns the value for lang, falling back to English and then to "".
func Resolve(text Text, lang Lang) (value string) {
	value = text.Resolve(lang)
	return value
}

// Resolve returns the value for lang, falling back to English and then to "".
func (t Text) Resolve(lang Lang) (value string) {
	value = t.Get(lang)
	if value == "" {
		value = t.EN
	}
	return value
}

// Get returns the raw value for lang without fallback.
func (t Text) Get(lang Lang) (value string) {
	switch lang {
	case PT:
		value = t.PT
	default:
		value = t.EN
	}
	return value
}

// Set stores value for lang.
func (t *Text) Set(lang Lang, value string) {
	switch lang {
	case PT:
		t.PT = value
	default:
		t.EN = value
	}
}

// IsZero reports whether both languages are empty.
func (t Text) IsZero() (zero bool) {
	zero = t.EN == "" && t.PT == ""
	return zero
}

// Untranslated reports whether the Portuguese value is missing or just a copy of the English one.
func (t Text) Untranslated() (pending bool) {
	if strings.TrimSpace(t.EN) == "" {
		return pending
	}
	pending = t.PT == "" || t.PT == t.EN
	return pending
}

// UnmarshalJSON accepts either a {"en","pt"} object or a bare legacy string.
func (t *Text) UnmarshalJSON(data []byte) (err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = Text{}
		return err
	}

	if trimmed[0] == '"' {
		var s string
		err = json.Unmarshal(trimmed, &s)
		if err != nil {
			err = errors.Wrap(err, "failed to decode legacy text")
			return err
		}
		*t = Plain(s)
		return err
	}

	if trimmed[0] != '{' {
		err = errors.Errorf("localized text must be a string or an {en, pt} object, got %s", string(trimmed))
		return err
	}

	// alias drops the method set so decoding does not recurse
	type alias Text
	var decoded alias
	err = json.Unmarshal(trimmed, &decoded)
	if err != nil {
		err = errors.Wrap(err, "failed to decode localized text")
		return err
	}
	*t = Text(decoded)

	return err
}
