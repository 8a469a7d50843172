package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser decodes a translation document whose top-level keys are language codes.
type Parser interface {
	Parse(content []byte) (map[string]map[string]any, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(content []byte) (map[string]map[string]any, error)

func (f ParserFunc) Parse(content []byte) (map[string]map[string]any, error) { return f(content) }

// YAMLParser parses YAML documents.
var YAMLParser Parser = ParserFunc(func(content []byte) (map[string]map[string]any, error) {
	var data map[string]map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return checkParsed(data)
})

// JSONParser parses JSON documents.
var JSONParser Parser = ParserFunc(func(content []byte) (map[string]map[string]any, error) {
	var data map[string]map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return checkParsed(data)
})

// ParserForFile selects a parser by file extension.
func ParserForFile(name string) (Parser, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "yaml", "yml":
		return YAMLParser, nil
	case "json":
		return JSONParser, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

func checkParsed(data map[string]map[string]any) (map[string]map[string]any, error) {
	if len(data) == 0 {
		return nil, ErrEmptyTranslations
	}
	for lang, m := range data {
		if lang == "" {
			return nil, ErrInvalidLanguageCode
		}
		if m == nil {
			return nil, fmt.Errorf("%w: language %q has no entries", ErrEmptyTranslations, lang)
		}
	}
	return data, nil
}
