package entities

import (
	"fmt"
	"strings"
)

// Language identifies a recognition model language.
type Language string

const (
	LanguageEnUS Language = "en-US"
	LanguageEs   Language = "es"
	LanguagePtBR Language = "pt-BR"
)

// DefaultLanguage is used when no language is specified.
const DefaultLanguage = LanguageEnUS

// Languages lists every supported language.
func Languages() []Language {
	return []Language{LanguageEnUS, LanguageEs, LanguagePtBR}
}

// ParseLanguage resolves a language tag, tolerating case and separator
// variations ("EN_us" resolves to en-US).
func ParseLanguage(tag string) (Language, error) {
	normalized := strings.ToLower(strings.ReplaceAll(tag, "_", "-"))
	for _, language := range Languages() {
		if strings.ToLower(string(language)) == normalized {
			return language, nil
		}
	}
	return "", fmt.Errorf("invalid value '%s' for language parameter", tag)
}

// CheckLanguage reports whether the tag resolves to a supported language.
func CheckLanguage(tag string) bool {
	_, err := ParseLanguage(tag)
	return err == nil
}

// AsFormatter returns the tag in the lowercase form expected by text
// formatting models.
func (l Language) AsFormatter() string {
	return strings.ToLower(string(l))
}

func (l Language) String() string {
	return string(l)
}
