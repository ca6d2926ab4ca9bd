package usersettings

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"

	"github.com/davidroman0O/usersettings/store"
)

// Setting keys of the shipped schema.
const (
	KeyMethod   = "method"
	KeyLocale   = "locale"
	KeyLanguage = "language"

	// KeyBlockedEngines holds an EngineSet. An unnamed map[string]struct{}
	// is a different type and is rejected with store.ErrInvalidSettingType.
	KeyBlockedEngines = "blocked_engines"
)

// Accepted values for KeyMethod.
const (
	MethodGET  = "GET"
	MethodPOST = "POST"
)

var (
	// lowercase language, optional region as two letters or a UN M.49 code
	localePattern = regexp.MustCompile(`^[a-z]{2,3}(_([A-Z]{2}|[0-9]{3}))?$`)
	// xx or xx_YY
	languagePattern = regexp.MustCompile(`^[a-z]{2}(_[A-Z]{2})?$`)
)

var schema = store.NewSchema("user_settings",
	store.Field[string](KeyMethod).
		Validate(ValidMethod).
		Describe("HTTP method used to submit queries: GET or POST"),
	store.Field[string](KeyLocale).
		Validate(ValidLocale).
		Describe("Interface locale, e.g. en or pt_BR"),
	store.Field[string](KeyLanguage).
		Validate(ValidLanguage).
		Describe("Search language, e.g. en or en_US"),
	store.Field[EngineSet](KeyBlockedEngines).
		Validate(ValidEngines).
		Serialize(EngineSet.String).
		Deserialize(ParseEngineSet).
		Describe("Engine identifiers excluded from searches"),
)

// Schema returns a copy of the shipped schema. Derived configurations add
// their own keys with Extend.
func Schema() *store.Schema {
	return schema.Extend(schema.Name())
}

// New returns empty settings validated by the shipped schema.
func New(opts ...store.Option) *store.Settings {
	return store.New(schema, opts...)
}

// ValidMethod accepts GET and POST.
func ValidMethod(v string) bool {
	return v == MethodGET || v == MethodPOST
}

// ValidLocale checks the shape of a locale such as "en", "pt_BR" or "es_419".
// It does not check that the locale is supported.
func ValidLocale(v string) bool {
	return localePattern.MatchString(v)
}

// ValidLanguage checks the shape of a language such as "en" or "en_US".
func ValidLanguage(v string) bool {
	return languagePattern.MatchString(v)
}

// ValidEngines requires every identifier to be non-empty and free of
// EngineDelimiter so the set survives a save/restore cycle.
func ValidEngines(v EngineSet) bool {
	for id := range v {
		if id == "" || strings.Contains(id, EngineDelimiter) {
			return false
		}
	}
	return true
}

// LocaleTag returns the stored locale as a BCP 47 tag.
func LocaleTag(s *store.Settings) (language.Tag, error) {
	return tagFor(s, KeyLocale)
}

// LanguageTag returns the stored search language as a BCP 47 tag.
func LanguageTag(s *store.Settings) (language.Tag, error) {
	return tagFor(s, KeyLanguage)
}

func tagFor(s *store.Settings, key string) (language.Tag, error) {
	v, err := store.Get[string](s, key)
	if err != nil {
		return language.Und, err
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%s %q: %w", key, v, err)
	}
	return tag, nil
}
