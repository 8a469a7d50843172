package i18n_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/i18n"
)

func TestTranslator_T(t *testing.T) {
	t.Parallel()

	adapter := &i18n.MapAdapter{Data: map[string]map[string]any{
		"en": {"validation": map[string]any{"min": "Must be at least %{min}", "plain": "Plain"}},
		"bg": {"validation": map[string]any{"min": "Поне %{min}"}},
	}}
	tr, err := i18n.NewTranslator(context.Background(), adapter)
	require.NoError(t, err)

	t.Run("substitutes named params", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Must be at least 3", tr.T("en", "validation.min", "min", "3"))
		assert.Equal(t, "Поне 3", tr.T("bg", "validation.min", "min", "3"))
	})

	t.Run("keeps unknown placeholders", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Must be at least %{min}", tr.T("en", "validation.min", "max", "3"))
	})

	t.Run("falls back to default language", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Plain", tr.T("bg", "validation.plain"))
		assert.Equal(t, "Plain", tr.T("fr", "validation.plain"))
	})

	t.Run("falls back to key", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "validation.unknown", tr.T("en", "validation.unknown"))
	})

	t.Run("subtree is not a translation", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "validation", tr.T("en", "validation"))
		assert.True(t, tr.HasTranslation("en", "validation.min"))
		assert.False(t, tr.HasTranslation("bg", "validation.plain"))
	})
}

func TestTranslator_NoFallbackToKey(t *testing.T) {
	t.Parallel()
	tr, err := i18n.NewTranslator(context.Background(), &i18n.MapAdapter{}, i18n.WithFallbackToKey(false))
	require.NoError(t, err)
	assert.Empty(t, tr.T("en", "missing"))
}

func TestTranslator_Embedded(t *testing.T) {
	t.Parallel()

	tr, err := i18n.NewDefault(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"bg", "en"}, tr.SupportedLanguages())
	assert.Equal(t, "This field is required", tr.T("en", "validation.required"))
	assert.Equal(t, "Трябва да попълните всички полета", tr.T("bg", "validation.required"))
	assert.Equal(t, "Must be at least 3 characters long", tr.T("en", "validation.min_length", "min", "3"))
}

func TestTranslator_Match(t *testing.T) {
	t.Parallel()

	tr, err := i18n.NewDefault(context.Background(), i18n.WithDefaultLanguage("en"))
	require.NoError(t, err)

	assert.Equal(t, "bg", tr.Match("bg-BG,bg;q=0.9,en;q=0.5"))
	assert.Equal(t, "en", tr.Match("en-US"))
	assert.Equal(t, "en", tr.Match(""))
	assert.Equal(t, "en", tr.Match("ja"))
}

func TestNewTranslator_NilAdapter(t *testing.T) {
	t.Parallel()
	_, err := i18n.NewTranslator(context.Background(), nil)
	require.ErrorIs(t, err, i18n.ErrNilAdapter)
}

func TestFileAdapter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "messages.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"en":{"validation":{"required":"Fill it in"}}}`), 0o600))

	tr, err := i18n.NewTranslator(context.Background(), i18n.Chain(i18n.Embedded(), &i18n.FileAdapter{Path: path}))
	require.NoError(t, err)
	assert.Equal(t, "Fill it in", tr.T("en", "validation.required"))
	assert.Equal(t, "Must be a valid email address", tr.T("en", "validation.email"))

	_, err = (&i18n.FileAdapter{Path: filepath.Join(dir, "messages.toml")}).Load(context.Background())
	require.ErrorIs(t, err, i18n.ErrUnsupportedFormat)

	_, err = (&i18n.FileAdapter{Path: filepath.Join(dir, "absent.yaml")}).Load(context.Background())
	require.ErrorIs(t, err, i18n.ErrFailedToReadFile)
}

func TestParsers(t *testing.T) {
	t.Parallel()

	_, err := i18n.YAMLParser.Parse([]byte("en: [broken"))
	require.ErrorIs(t, err, i18n.ErrFailedToParseYAML)

	_, err = i18n.JSONParser.Parse([]byte("{}"))
	require.ErrorIs(t, err, i18n.ErrEmptyTranslations)
}
