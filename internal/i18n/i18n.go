// internal/i18n/i18n.go
package i18n

import "fmt"

// Language is a supported output language.
type Language string

const (
	LangEnglish Language = "en"
	LangPolish  Language = "pl"
	DefaultLang Language = LangEnglish
)

// T returns the template for key in lang, falling back to English and then to
// the key itself.
func T(key string, lang Language) string {
	if data, ok := messages[lang]; ok {
		if text, ok := data[key]; ok {
			return text
		}
	}
	if lang != DefaultLang {
		if text, ok := messages[DefaultLang][key]; ok {
			return text
		}
	}
	return key
}

// Tf returns the formatted template.
func Tf(key string, lang Language, args ...any) string {
	if len(args) == 0 {
		return T(key, lang)
	}
	return fmt.Sprintf(T(key, lang), args...)
}

// Pair renders key in English and Polish.
func Pair(key string, args ...any) (en, pl string) {
	return Tf(key, LangEnglish, args...), Tf(key, LangPolish, args...)
}

// Has reports whether a template exists for key.
func Has(key string) bool {
	_, ok := messages[DefaultLang][key]
	return ok
}
