package validation

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

// RequiredRule is the name of the built-in rule that every registry is seeded with.
const RequiredRule = "required"

// Default values of a new option set.
const (
	DefaultErrorTime        = 5 * time.Second
	DefaultErrorPlacePrefix = "error_"
	DefaultErrorEffect      = "fade"
	DefaultLanguage         = "en"
	DefaultValidateBind     = "blur"
	DefaultResetErrorBind   = "click focus"
)

// Rule is a named predicate with a default failure message.
// Kind and Params describe the predicate declaratively so the rule survives
// persistence; Check is a process-local predicate that takes precedence.
type Rule struct {
	Kind           string           `json:"kind,omitempty" yaml:"kind,omitempty" bson:"kind,omitempty"`
	Params         validator.Params `json:"params,omitempty" yaml:"params,omitempty" bson:"params,omitempty"`
	Message        string           `json:"message,omitempty" yaml:"message,omitempty" bson:"message,omitempty"`
	TranslationKey string           `json:"translationKey,omitempty" yaml:"translation_key,omitempty" bson:"translationKey,omitempty"`

	Check validator.Predicate `json:"-" yaml:"-" bson:"-"`
}

// FieldEvent carries the context of a field-level success callback.
type FieldEvent struct {
	ContainerID string
	Field       string
	Element     validator.Element
}

// SuccessFunc is called when a field validates successfully.
type SuccessFunc func(ctx context.Context, ev FieldEvent)

// FormSuccessFunc is called when every field of a submission passed.
// Its result decides whether the submission proceeds.
type FormSuccessFunc func(ctx context.Context, sub *Submission) bool

// Field describes which rules apply to a form control and where its messages go.
type Field struct {
	Rules          []string          `json:"rules" yaml:"rules" bson:"rules"`
	Auto           bool              `json:"auto" yaml:"auto" bson:"auto"`
	ValidateBind   string            `json:"validateBind,omitempty" yaml:"validate_bind,omitempty" bson:"validateBind,omitempty"`
	ResetErrorBind string            `json:"resetErrorBind,omitempty" yaml:"reset_error_bind,omitempty" bson:"resetErrorBind,omitempty"`
	MessagePlace   string            `json:"messagePlace,omitempty" yaml:"message_place,omitempty" bson:"messagePlace,omitempty"`
	Messages       map[string]string `json:"messages,omitempty" yaml:"messages,omitempty" bson:"messages,omitempty"`

	// OwnPlace is set when MessagePlace was allocated by the registry.
	OwnPlace bool `json:"ownPlace,omitempty" yaml:"-" bson:"ownPlace,omitempty"`

	Success SuccessFunc `json:"-" yaml:"-" bson:"-"`
}

// NamedField pairs a field descriptor with its name for ordered registration.
type NamedField struct {
	Name  string
	Field Field
}

// Settings are the container-wide options.
type Settings struct {
	MessagesPlace    string            `json:"messagesPlace" bson:"messagesPlace"`
	StopOnError      bool              `json:"stopOnError" bson:"stopOnError"`
	FieldBind        string            `json:"fieldBind,omitempty" bson:"fieldBind,omitempty"`
	ErrorTime        time.Duration     `json:"errorTime" bson:"errorTime"`
	ErrorPlacePrefix string            `json:"errorPlacePrefix" bson:"errorPlacePrefix"`
	ErrorCSS         map[string]string `json:"errorCSS,omitempty" bson:"errorCSS,omitempty"`
	ErrorEffect      string            `json:"errorEffect,omitempty" bson:"errorEffect,omitempty"`
	Language         string            `json:"language" bson:"language"`
}

// DefaultSettings returns the settings of a freshly attached container.
func DefaultSettings() Settings {
	return Settings{
		ErrorTime:        DefaultErrorTime,
		ErrorPlacePrefix: DefaultErrorPlacePrefix,
		ErrorCSS:         map[string]string{"color": "red"},
		ErrorEffect:      DefaultErrorEffect,
		Language:         DefaultLanguage,
	}
}

// OptionSet is the whole persisted configuration of one container.
type OptionSet struct {
	Settings Settings         `json:"settings" bson:"settings"`
	Rules    map[string]Rule  `json:"rules" bson:"rules"`
	Fields   map[string]Field `json:"fields" bson:"fields"`

	// Order lists field names in registration order.
	Order []string `json:"order" bson:"order"`
}

// NewOptionSet returns an option set holding the default settings and no rules or fields.
func NewOptionSet() *OptionSet {
	return &OptionSet{
		Settings: DefaultSettings(),
		Rules:    make(map[string]Rule),
		Fields:   make(map[string]Field),
	}
}

// Clone returns a deep copy of the option set.
func (s *OptionSet) Clone() *OptionSet {
	if s == nil {
		return nil
	}
	out := &OptionSet{
		Settings: s.Settings,
		Rules:    make(map[string]Rule, len(s.Rules)),
		Fields:   make(map[string]Field, len(s.Fields)),
		Order:    slices.Clone(s.Order),
	}
	out.Settings.ErrorCSS = maps.Clone(s.Settings.ErrorCSS)
	for name, r := range s.Rules {
		out.Rules[name] = r.clone()
	}
	for name, f := range s.Fields {
		out.Fields[name] = f.clone()
	}
	return out
}

// normalize fills nil maps and reconciles Order with Fields: names without a
// descriptor are dropped and descriptors missing from Order are appended in
// lexical order.
func (s *OptionSet) normalize() {
	if s.Rules == nil {
		s.Rules = make(map[string]Rule)
	}
	if s.Fields == nil {
		s.Fields = make(map[string]Field)
	}

	seen := make(map[string]struct{}, len(s.Order))
	order := make([]string, 0, len(s.Fields))
	for _, name := range s.Order {
		if _, ok := s.Fields[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	var rest []string
	for name := range s.Fields {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	s.Order = append(order, rest...)
}

// strip drops process-local callbacks before persistence.
func (s *OptionSet) strip() {
	for name, r := range s.Rules {
		r.Check = nil
		s.Rules[name] = r
	}
	for name, f := range s.Fields {
		f.Success = nil
		s.Fields[name] = f
	}
}

func (r Rule) clone() Rule {
	r.Params = r.Params.Clone()
	return r
}

func (f Field) clone() Field {
	f.Rules = slices.Clone(f.Rules)
	f.Messages = maps.Clone(f.Messages)
	return f
}

// Status is the outcome of validating one field.
type Status string

const (
	// StatusValid means every attached rule passed.
	StatusValid Status = "valid"
	// StatusSkipped means the value was empty and the field is not required.
	StatusSkipped Status = "skipped"
	// StatusInvalid means a rule failed.
	StatusInvalid Status = "invalid"
	// StatusMissing means the container has no element bound to the field name.
	StatusMissing Status = "missing"
)

// FieldResult is the outcome of one field validation.
type FieldResult struct {
	Field   string `json:"field"`
	Status  Status `json:"status"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message,omitempty"`
}

// Passed reports whether the field does not block submission.
func (r FieldResult) Passed() bool {
	return r.Status == StatusValid || r.Status == StatusSkipped
}
