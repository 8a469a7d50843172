package i18n

import "errors"

var (
	ErrNilAdapter          = errors.New("translation adapter is nil")
	ErrFailedToParseYAML   = errors.New("failed to parse YAML content")
	ErrFailedToParseJSON   = errors.New("failed to parse JSON content")
	ErrFailedToReadFile    = errors.New("failed to read translation file")
	ErrUnsupportedFormat   = errors.New("unsupported translation file format")
	ErrEmptyTranslations   = errors.New("no translations found")
	ErrInvalidLanguageCode = errors.New("invalid language code")
)
