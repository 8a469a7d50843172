package validation

import (
	"log/slog"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

// Config seeds a newly attached container.
type Config struct {
	// Settings replaces the default settings when set. Zero ErrorTime,
	// ErrorPlacePrefix and Language fall back to their defaults.
	Settings *Settings
	Rules    map[string]Rule
	Fields   []NamedField
	Success  FormSuccessFunc
}

type attachOptions struct {
	config     Config
	logger     *slog.Logger
	translator Translator
	catalog    *validator.Catalog
	clock      Clock
	observer   Observer
}

// Option configures Attach.
type Option func(*attachOptions)

// WithConfig seeds settings, rules and fields. For a container that already
// has stored state only the process-local callbacks of cfg are registered.
func WithConfig(cfg Config) Option {
	return func(o *attachOptions) {
		if cfg.Success == nil {
			cfg.Success = o.config.Success
		}
		o.config = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *attachOptions) {
		o.logger = l
	}
}

// WithTranslator sets the translator for default rule messages.
func WithTranslator(t Translator) Option {
	return func(o *attachOptions) {
		o.translator = t
	}
}

// WithCatalog sets the rule kind catalog.
func WithCatalog(c *validator.Catalog) Option {
	return func(o *attachOptions) {
		o.catalog = c
	}
}

// WithClock sets the clock that schedules the auto-clear of messages.
func WithClock(c Clock) Option {
	return func(o *attachOptions) {
		o.clock = c
	}
}

// WithObserver sets the observer of validation outcomes.
func WithObserver(obs Observer) Option {
	return func(o *attachOptions) {
		o.observer = obs
	}
}

// WithSuccess sets the callback run when every field passes.
func WithSuccess(fn FormSuccessFunc) Option {
	return func(o *attachOptions) {
		o.config.Success = fn
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.ErrorTime <= 0 {
		s.ErrorTime = d.ErrorTime
	}
	if s.ErrorPlacePrefix == "" {
		s.ErrorPlacePrefix = d.ErrorPlacePrefix
	}
	if s.ErrorCSS == nil {
		s.ErrorCSS = d.ErrorCSS
	}
	if s.Language == "" {
		s.Language = d.Language
	}
	return s
}
