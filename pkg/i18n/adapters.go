package i18n

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// TranslationAdapter loads translations keyed by language code.
type TranslationAdapter interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// MapAdapter serves translations from memory.
type MapAdapter struct {
	Data map[string]map[string]any
}

// Load returns Data.
func (a *MapAdapter) Load(_ context.Context) (map[string]map[string]any, error) {
	if a.Data == nil {
		return make(map[string]map[string]any), nil
	}
	return a.Data, nil
}

// FileAdapter reads a single YAML or JSON file.
type FileAdapter struct {
	Path string
}

// Load parses the file with the parser matching its extension.
func (a *FileAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parser, err := ParserForFile(a.Path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return parser.Parse(content)
}

// FSAdapter merges every translation file matching Pattern in FS.
// Later files override keys of earlier ones.
type FSAdapter struct {
	FS      fs.FS
	Pattern string
}

// Load implements TranslationAdapter.
func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	names, err := fs.Glob(a.FS, a.Pattern)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: pattern %q", ErrEmptyTranslations, a.Pattern)
	}

	out := make(map[string]map[string]any)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parser, err := ParserForFile(name)
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(a.FS, name)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, err)
		}
		parsed, err := parser.Parse(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		for lang, entries := range parsed {
			if out[lang] == nil {
				out[lang] = make(map[string]any, len(entries))
			}
			mergeTree(out[lang], entries)
		}
	}
	return out, nil
}

// Embedded returns the built-in validation message catalogue (en, bg).
func Embedded() TranslationAdapter {
	return &FSAdapter{FS: embeddedLocales, Pattern: "locales/*.yaml"}
}

// Chain merges several adapters; later adapters win on conflicting top-level keys.
func Chain(adapters ...TranslationAdapter) TranslationAdapter {
	return chainAdapter(adapters)
}

type chainAdapter []TranslationAdapter

func (c chainAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any)
	for _, a := range c {
		if a == nil {
			continue
		}
		data, err := a.Load(ctx)
		if err != nil {
			return nil, err
		}
		for lang, entries := range data {
			if out[lang] == nil {
				out[lang] = make(map[string]any, len(entries))
			}
			mergeTree(out[lang], entries)
		}
	}
	return out, nil
}

// mergeTree merges src into dst recursively for nested string-keyed maps.
func mergeTree(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcOK := v.(map[string]any)
		dstMap, dstOK := dst[k].(map[string]any)
		if srcOK && dstOK {
			mergeTree(dstMap, srcMap)
			continue
		}
		if srcOK {
			dst[k] = cloneTree(srcMap)
			continue
		}
		dst[k] = v
	}
}

func cloneTree(src map[string]any) map[string]any {
	out := maps.Clone(src)
	for k, v := range out {
		if m, ok := v.(map[string]any); ok {
			out[k] = cloneTree(m)
		}
	}
	return out
}
