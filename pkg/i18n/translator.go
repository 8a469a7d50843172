package i18n

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no WithDefaultLanguage option is given.
const DefaultLanguage = "en"

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// Translator resolves dot-separated keys to localized templates.
type Translator struct {
	mu            sync.RWMutex
	translations  map[string]map[string]any
	defaultLang   string
	fallbackToKey bool
	logMissing    bool
	logger        *slog.Logger
	matcher       language.Matcher
	matchLangs    []string
	langs         []string
}

// NewTranslator loads translations from adapter and applies options.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, opts ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}

	translations, err := adapter.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := t.setTranslations(translations); err != nil {
		return nil, err
	}

	t.logger.DebugContext(ctx, "translations loaded", "languages", t.langs)
	return t, nil
}

// NewDefault returns a translator over the embedded catalogue.
func NewDefault(ctx context.Context, opts ...Option) (*Translator, error) {
	return NewTranslator(ctx, Embedded(), opts...)
}

func (t *Translator) setTranslations(translations map[string]map[string]any) error {
	langs := make([]string, 0, len(translations))
	for lang := range translations {
		if lang == "" {
			return ErrInvalidLanguageCode
		}
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	// Default language goes first so the matcher falls back to it.
	tags := []language.Tag{language.Make(t.defaultLang)}
	matchLangs := []string{t.defaultLang}
	for _, lang := range langs {
		if lang != t.defaultLang {
			tags = append(tags, language.Make(lang))
			matchLangs = append(matchLangs, lang)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.translations = translations
	t.langs = langs
	t.matcher = language.NewMatcher(tags)
	t.matchLangs = matchLangs
	return nil
}

// SupportedLanguages returns the loaded language codes in lexical order.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.langs...)
}

// DefaultLanguage returns the fallback language.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// Match returns the supported language best matching an Accept-Language
// header value, or the default language.
func (t *Translator) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.defaultLang
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(t.matchLangs) {
		return t.defaultLang
	}
	return t.matchLangs[idx]
}

// HasTranslation reports whether key exists for lang.
func (t *Translator) HasTranslation(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.translations[lang]
	if !ok {
		return false
	}
	_, ok = lookup(m, key)
	return ok
}

// T translates key for lang, substituting "%{name}" placeholders from
// key/value pairs in args. Unsupported languages fall back to the default
// language; missing keys fall back to the key itself unless disabled.
func (t *Translator) T(lang, key string, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, l := range []string{lang, t.defaultLang} {
		m, ok := t.translations[l]
		if !ok {
			continue
		}
		val, ok := lookup(m, key)
		if !ok {
			continue
		}
		switch v := val.(type) {
		case string:
			return substitute(v, args)
		case fmt.Stringer:
			return substitute(v.String(), args)
		}
	}

	if t.logMissing {
		t.logger.Warn("translation not found", "lang", lang, "key", key)
	}
	if t.fallbackToKey {
		return substitute(key, args)
	}
	return ""
}

func lookup(m map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	current := m
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}
		next, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

func substitute(tmpl string, args []string) string {
	if len(args) < 2 {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if v, ok := params[match[2:len(match)-1]]; ok {
			return v
		}
		return match
	})
}
