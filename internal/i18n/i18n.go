// Package i18n holds the static translation tables of the wizard.
//
// Tables are embedded YAML files, one per language, mapping a dotted key to
// the display string. Lookups fall back to English, then to the key itself.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used whenever a language code is unknown.
const DefaultLanguage = "en"

type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

var supportedLanguages = []Language{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "de", Name: "German", NativeName: "Deutsch"},
	{Code: "zh", Name: "Chinese", NativeName: "中文"},
}

//go:embed locales/*.yaml
var localeFS embed.FS

// Table is the immutable set of translations for every supported language.
type Table struct {
	entries map[string]map[string]string
}

// Load parses the embedded locale files.
func Load() (*Table, error) {
	t := &Table{entries: make(map[string]map[string]string, len(supportedLanguages))}
	for _, lang := range supportedLanguages {
		raw, err := localeFS.ReadFile(path.Join("locales", lang.Code+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang.Code, err)
		}
		entries := map[string]string{}
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang.Code, err)
		}
		t.entries[lang.Code] = entries
	}
	return t, nil
}

// MustLoad is Load for package-level initialisation where a broken embed is a build defect.
func MustLoad() *Table {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Languages returns the supported languages in display order.
func Languages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// IsSupported reports whether code has a translation table.
func IsSupported(code string) bool {
	for _, l := range supportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// LanguageName returns the English name of a language, English when unknown.
func LanguageName(code string) string {
	for _, l := range supportedLanguages {
		if l.Code == code {
			return l.Name
		}
	}
	return "English"
}

// T translates key for lang.
func (t *Table) T(lang, key string) string {
	if s, ok := t.entries[lang][key]; ok && s != "" {
		return s
	}
	if s, ok := t.entries[DefaultLanguage][key]; ok && s != "" {
		return s
	}
	return key
}

// Tf translates key and substitutes {name} placeholders.
func (t *Table) Tf(lang, key string, args map[string]string) string {
	s := t.T(lang, key)
	for name, val := range args {
		s = strings.ReplaceAll(s, "{"+name+"}", val)
	}
	return s
}

// All returns every key of the English table resolved for lang.
func (t *Table) All(lang string) map[string]string {
	out := make(map[string]string, len(t.entries[DefaultLanguage]))
	for key := range t.entries[DefaultLanguage] {
		out[key] = t.T(lang, key)
	}
	return out
}
