package validation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"time"
)

// Option names accepted by OptionStore.Get and OptionStore.Set.
const (
	OptMessagesPlace    = "messagesPlace"
	OptStopOnError      = "stopOnError"
	OptFieldBind        = "fieldBind"
	OptErrorTime        = "errorTime"
	OptErrorPlacePrefix = "errorPlacePrefix"
	OptErrorCSS         = "errorCSS"
	OptErrorEffect      = "errorEffect"
	OptLanguage         = "language"
	OptRules            = "rules"
	OptFields           = "fields"
)

// OptionStore reads and writes the option set of one container.
// It holds no copy: every call reloads from the StateStore and every write
// saves back immediately, so external changes are observed on the next call.
type OptionStore struct {
	id    string
	state StateStore
}

// NewOptionStore binds a store to a container id.
func NewOptionStore(id string, state StateStore) *OptionStore {
	return &OptionStore{id: id, state: state}
}

// ID returns the container id.
func (s *OptionStore) ID() string { return s.id }

// Load returns the current option set. A container with nothing stored reads
// as a fresh default set.
func (s *OptionStore) Load(ctx context.Context) (*OptionSet, error) {
	set, err := s.state.Load(ctx, s.id)
	if errors.Is(err, ErrOptionsNotFound) {
		return NewOptionSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load options %q: %w", s.id, err)
	}
	if set == nil {
		return NewOptionSet(), nil
	}
	set.normalize()
	return set, nil
}

// Save replaces the stored option set.
func (s *OptionStore) Save(ctx context.Context, set *OptionSet) error {
	set.normalize()
	if err := s.state.Save(ctx, s.id, set); err != nil {
		return fmt.Errorf("save options %q: %w", s.id, err)
	}
	return nil
}

// Update loads the set, applies fn and saves the result. Nothing is saved
// when fn fails.
func (s *OptionStore) Update(ctx context.Context, fn func(set *OptionSet) error) error {
	set, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(set); err != nil {
		return err
	}
	return s.Save(ctx, set)
}

// Get returns one option. Unknown names yield nil.
func (s *OptionStore) Get(ctx context.Context, name string) (any, error) {
	set, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return get(set, name), nil
}

// GetMany returns the named options. Unknown names are omitted.
func (s *OptionStore) GetMany(ctx context.Context, names ...string) (map[string]any, error) {
	set, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(names))
	for _, name := range names {
		if v := get(set, name); v != nil {
			out[name] = v
		}
	}
	return out, nil
}

// Set writes one option.
func (s *OptionStore) Set(ctx context.Context, name string, value any) (*OptionStore, error) {
	err := s.Update(ctx, func(set *OptionSet) error {
		return put(set, name, value)
	})
	return s, err
}

// SetMany writes several options in a single save. Nothing is written when
// any value is rejected.
func (s *OptionStore) SetMany(ctx context.Context, values map[string]any) (*OptionStore, error) {
	err := s.Update(ctx, func(set *OptionSet) error {
		var errs []error
		for name, v := range values {
			if err := put(set, name, v); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
	return s, err
}

func get(set *OptionSet, name string) any {
	st := set.Settings
	switch name {
	case OptMessagesPlace:
		return st.MessagesPlace
	case OptStopOnError:
		return st.StopOnError
	case OptFieldBind:
		return st.FieldBind
	case OptErrorTime:
		return st.ErrorTime
	case OptErrorPlacePrefix:
		return st.ErrorPlacePrefix
	case OptErrorCSS:
		return maps.Clone(st.ErrorCSS)
	case OptErrorEffect:
		return st.ErrorEffect
	case OptLanguage:
		return st.Language
	case OptRules:
		return set.Clone().Rules
	case OptFields:
		return set.Clone().Fields
	}
	return nil
}

func put(set *OptionSet, name string, value any) error {
	st := &set.Settings
	var ok bool
	switch name {
	case OptMessagesPlace:
		st.MessagesPlace, ok = value.(string)
	case OptStopOnError:
		st.StopOnError, ok = value.(bool)
	case OptFieldBind:
		st.FieldBind, ok = value.(string)
	case OptErrorTime:
		st.ErrorTime, ok = toDuration(value)
	case OptErrorPlacePrefix:
		st.ErrorPlacePrefix, ok = value.(string)
	case OptErrorCSS:
		var css map[string]string
		if css, ok = value.(map[string]string); ok {
			st.ErrorCSS = maps.Clone(css)
		}
	case OptErrorEffect:
		st.ErrorEffect, ok = value.(string)
	case OptLanguage:
		st.Language, ok = value.(string)
	case OptRules:
		var rules map[string]Rule
		if rules, ok = value.(map[string]Rule); ok {
			set.Rules = make(map[string]Rule, len(rules))
			for k, r := range rules {
				set.Rules[k] = r.clone()
			}
		}
	case OptFields:
		var fields map[string]Field
		if fields, ok = value.(map[string]Field); ok {
			set.Fields = make(map[string]Field, len(fields))
			for k, f := range fields {
				set.Fields[k] = f.clone()
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	if !ok {
		return fmt.Errorf("%w: %q cannot be %T", ErrInvalidOptionValue, name, value)
	}
	return nil
}

// toDuration accepts a time.Duration, a number of milliseconds or a duration string.
func toDuration(v any) (time.Duration, bool) {
	switch d := v.(type) {
	case time.Duration:
		return d, d >= 0
	case int:
		return time.Duration(d) * time.Millisecond, d >= 0
	case int64:
		return time.Duration(d) * time.Millisecond, d >= 0
	case float64:
		return time.Duration(d * float64(time.Millisecond)), d >= 0
	case string:
		if parsed, err := time.ParseDuration(d); err == nil {
			return parsed, parsed >= 0
		}
		ms, err := strconv.Atoi(d)
		if err != nil {
			return 0, false
		}
		return time.Duration(ms) * time.Millisecond, ms >= 0
	}
	return 0, false
}
