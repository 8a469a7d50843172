// Package i18n translates validation messages.
//
// Translations are nested maps keyed by language code, loaded once through a
// TranslationAdapter (in-memory maps, a single file, or an fs.FS such as the
// embedded default catalogue). Keys use dot notation ("validation.required")
// and templates use named placeholders ("%{min}").
//
//	tr, err := i18n.NewTranslator(ctx, i18n.Embedded(), i18n.WithDefaultLanguage("en"))
//	msg := tr.T("bg", "validation.min_length", "min", "3")
//
// Match picks the best supported language for an Accept-Language header.
package i18n
