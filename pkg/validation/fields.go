package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrymomot/formguard/pkg/logger"
)

// FieldRegistry manages the field descriptors of one container and runs
// per-field validation.
type FieldRegistry struct {
	options  *OptionStore
	rules    *RuleRegistry
	ui       UI
	logger   *slog.Logger
	observer Observer

	mu      sync.Mutex
	success map[string]SuccessFunc

	// wrap decorates handlers given to the UI, e.g. to take the container lock.
	wrap func(InteractionHandler) InteractionHandler
}

// NewFieldRegistry creates a registry. A nil logger discards output.
func NewFieldRegistry(options *OptionStore, rules *RuleRegistry, ui UI, log *slog.Logger) *FieldRegistry {
	return &FieldRegistry{
		options:  options,
		rules:    rules,
		ui:       ui,
		logger:   logger.Or(log),
		observer: nopObserver{},
		success:  make(map[string]SuccessFunc),
		wrap:     func(h InteractionHandler) InteractionHandler { return h },
	}
}

// AddField registers or replaces a field.
func (r *FieldRegistry) AddField(ctx context.Context, name string, f Field) error {
	return r.AddFields(ctx, []NamedField{{Name: name, Field: f}})
}

// AddFields registers fields in the given order. A replaced field keeps its
// position. Nothing is registered when any field references an unknown rule.
func (r *FieldRegistry) AddFields(ctx context.Context, fields []NamedField) error {
	set, err := r.options.Load(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, nf := range fields {
		if nf.Name == "" {
			errs = append(errs, fmt.Errorf("%w: empty name", ErrInvalidField))
			continue
		}
		for _, rule := range nf.Field.Rules {
			if _, ok := set.Rules[rule]; !ok {
				errs = append(errs, fmt.Errorf("field %q: %w: %q", nf.Name, ErrRuleNotFound, rule))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	var (
		bind, unbind []NamedField
		created      []string
		dropped      []string
		success      = make(map[string]SuccessFunc, len(fields))
	)
	for _, nf := range fields {
		name := nf.Name
		f := withDefaults(nf.Field, set.Settings)
		old, existed := set.Fields[name]

		if existed && old.Auto {
			unbind = append(unbind, NamedField{Name: name, Field: old})
		}
		switch {
		case f.MessagePlace == "" && existed && old.OwnPlace:
			f.MessagePlace, f.OwnPlace = old.MessagePlace, true
		case f.MessagePlace == "":
			f.MessagePlace, f.OwnPlace = r.createPlace(name, set.Settings), true
			created = append(created, f.MessagePlace)
		case existed && old.OwnPlace && old.MessagePlace == f.MessagePlace:
			f.OwnPlace = true
		case existed && old.OwnPlace:
			dropped = append(dropped, old.MessagePlace)
		}

		success[name] = f.Success
		f.Success = nil
		set.Fields[name] = f
		if !existed {
			set.Order = append(set.Order, name)
		}
		if f.Auto {
			bind = append(bind, NamedField{Name: name, Field: f})
		}
	}

	if err := r.options.Save(ctx, set); err != nil {
		for _, place := range created {
			r.ui.RemoveMessagePlace(place)
		}
		return err
	}

	r.mu.Lock()
	for name, fn := range success {
		if fn != nil {
			r.success[name] = fn
		} else {
			delete(r.success, name)
		}
	}
	r.mu.Unlock()

	for _, nf := range unbind {
		r.unbind(nf.Name, nf.Field)
	}
	for _, place := range dropped {
		r.ui.RemoveMessagePlace(place)
	}
	for _, nf := range bind {
		r.bind(nf.Name, nf.Field)
	}
	return nil
}

// RemoveField deletes a field, unbinds its triggers and removes the message
// place allocated for it.
func (r *FieldRegistry) RemoveField(ctx context.Context, name string) error {
	set, err := r.options.Load(ctx)
	if err != nil {
		return err
	}
	f, ok := set.Fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	delete(set.Fields, name)
	set.Order = slices.DeleteFunc(set.Order, func(n string) bool { return n == name })
	if err := r.options.Save(ctx, set); err != nil {
		return err
	}

	if f.Auto {
		r.unbind(name, f)
	}
	if f.OwnPlace {
		r.ui.RemoveMessagePlace(f.MessagePlace)
	}
	r.mu.Lock()
	delete(r.success, name)
	r.mu.Unlock()
	return nil
}

// GetField returns the descriptor of name.
func (r *FieldRegistry) GetField(ctx context.Context, name string) (Field, bool, error) {
	set, err := r.options.Load(ctx)
	if err != nil {
		return Field{}, false, err
	}
	f, ok := set.Fields[name]
	if !ok {
		return Field{}, false, nil
	}
	return r.attach(name, f), true, nil
}

// GetFields returns the descriptors for names, or every field when names is
// empty. Requested names that are not registered map to nil.
func (r *FieldRegistry) GetFields(ctx context.Context, names ...string) (map[string]*Field, error) {
	set, err := r.options.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = set.Order
	}
	out := make(map[string]*Field, len(names))
	for _, name := range names {
		f, ok := set.Fields[name]
		if !ok {
			out[name] = nil
			continue
		}
		attached := r.attach(name, f)
		out[name] = &attached
	}
	return out, nil
}

// FieldNames returns the registered field names in registration order.
func (r *FieldRegistry) FieldNames(ctx context.Context) ([]string, error) {
	set, err := r.options.Load(ctx)
	if err != nil {
		return nil, err
	}
	return set.Order, nil
}

// GetMessages returns the override messages of a field.
func (r *FieldRegistry) GetMessages(ctx context.Context, name string) (map[string]string, bool, error) {
	set, err := r.options.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	f, ok := set.Fields[name]
	if !ok {
		return nil, false, nil
	}
	if f.Messages == nil {
		return map[string]string{}, true, nil
	}
	return f.Messages, true, nil
}

// SetMessages merges override messages into a field.
func (r *FieldRegistry) SetMessages(ctx context.Context, name string, messages map[string]string) error {
	return r.update(ctx, name, func(_ *OptionSet, f *Field) error {
		if f.Messages == nil {
			f.Messages = make(map[string]string, len(messages))
		}
		maps.Copy(f.Messages, messages)
		return nil
	})
}

// AddRules appends rules to a field, skipping ones it already has.
func (r *FieldRegistry) AddRules(ctx context.Context, name string, ruleNames ...string) error {
	return r.update(ctx, name, func(set *OptionSet, f *Field) error {
		var errs []error
		for _, rule := range ruleNames {
			if _, ok := set.Rules[rule]; !ok {
				errs = append(errs, fmt.Errorf("%w: %q", ErrRuleNotFound, rule))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}
		f.Rules = dedupe(append(f.Rules, ruleNames...))
		return nil
	})
}

// RemoveRules detaches rules from a field. Names the field does not have are ignored.
func (r *FieldRegistry) RemoveRules(ctx context.Context, name string, ruleNames ...string) error {
	return r.update(ctx, name, func(_ *OptionSet, f *Field) error {
		f.Rules = slices.DeleteFunc(f.Rules, func(rule string) bool {
			return slices.Contains(ruleNames, rule)
		})
		return nil
	})
}

// GetRules resolves the rules attached to a field.
func (r *FieldRegistry) GetRules(ctx context.Context, name string) (map[string]*Rule, bool, error) {
	f, ok, err := r.GetField(ctx, name)
	if err != nil || !ok {
		return nil, false, err
	}
	rules, err := r.rules.GetRules(ctx, f.Rules...)
	if err != nil {
		return nil, false, err
	}
	if len(f.Rules) == 0 {
		rules = map[string]*Rule{}
	}
	return rules, true, nil
}

// Interact runs the auto-validate flow for a field: clear its place,
// validate into it and call its success callback when it passes.
func (r *FieldRegistry) Interact(ctx context.Context, name string) (FieldResult, error) {
	set, err := r.options.Load(ctx)
	if err != nil {
		return FieldResult{}, err
	}
	f, ok := set.Fields[name]
	if !ok {
		return FieldResult{}, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	if f.MessagePlace != "" {
		r.ui.ClearMessages(f.MessagePlace)
		r.ui.HideMessages(f.MessagePlace, "")
	}
	res, err := r.validate(ctx, set, name, f.MessagePlace)
	if err != nil {
		return res, err
	}
	if res.Passed() {
		r.succeed(ctx, name)
	}
	return res, nil
}

// Reset clears and hides a field's message place.
func (r *FieldRegistry) Reset(ctx context.Context, name string) error {
	f, ok, err := r.GetField(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	if f.MessagePlace != "" {
		r.ui.ClearMessages(f.MessagePlace)
		r.ui.HideMessages(f.MessagePlace, "")
	}
	return nil
}

// restore recreates UI state for stored fields after attaching to a new UI.
func (r *FieldRegistry) restore(ctx context.Context) error {
	set, err := r.options.Load(ctx)
	if err != nil {
		return err
	}
	changed := false
	for _, name := range set.Order {
		f := set.Fields[name]
		if f.OwnPlace {
			if place := r.createPlace(name, set.Settings); place != f.MessagePlace {
				f.MessagePlace = place
				set.Fields[name] = f
				changed = true
			}
		}
		if f.Auto {
			r.bind(name, f)
		}
	}
	if changed {
		return r.options.Save(ctx, set)
	}
	return nil
}

// release unbinds every field and removes allocated message places.
func (r *FieldRegistry) release(ctx context.Context) error {
	set, err := r.options.Load(ctx)
	if err != nil {
		return err
	}
	for _, name := range set.Order {
		f := set.Fields[name]
		if f.Auto {
			r.unbind(name, f)
		}
		if f.OwnPlace {
			r.ui.RemoveMessagePlace(f.MessagePlace)
		}
	}
	return nil
}

func (r *FieldRegistry) update(ctx context.Context, name string, fn func(set *OptionSet, f *Field) error) error {
	return r.options.Update(ctx, func(set *OptionSet) error {
		f, ok := set.Fields[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
		}
		if err := fn(set, &f); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		set.Fields[name] = f
		return nil
	})
}

func (r *FieldRegistry) createPlace(name string, st Settings) string {
	return r.ui.CreateMessagePlace(MessagePlace{
		ID:     st.ErrorPlacePrefix + name,
		Field:  name,
		Parent: st.MessagesPlace,
		CSS:    maps.Clone(st.ErrorCSS),
	})
}

func (r *FieldRegistry) bind(name string, f Field) {
	r.ui.BindInteraction(name, f.ValidateBind, r.wrap(func(ctx context.Context, field string) error {
		_, err := r.Interact(ctx, field)
		return err
	}))
	r.ui.BindInteraction(name, f.ResetErrorBind, r.wrap(r.Reset))
}

func (r *FieldRegistry) unbind(name string, f Field) {
	r.ui.UnbindInteraction(name, f.ValidateBind)
	r.ui.UnbindInteraction(name, f.ResetErrorBind)
}

func (r *FieldRegistry) attach(name string, f Field) Field {
	f = f.clone()
	if f.Messages == nil {
		f.Messages = map[string]string{}
	}
	r.mu.Lock()
	f.Success = r.success[name]
	r.mu.Unlock()
	return f
}

func (r *FieldRegistry) succeed(ctx context.Context, name string) {
	r.mu.Lock()
	fn := r.success[name]
	r.mu.Unlock()
	if fn == nil {
		return
	}
	el, _ := r.ui.FieldElement(name)
	fn(ctx, FieldEvent{ContainerID: r.options.ID(), Field: name, Element: el})
}

func withDefaults(f Field, st Settings) Field {
	f = f.clone()
	f.Rules = dedupe(f.Rules)
	if f.ValidateBind == "" {
		f.ValidateBind = DefaultValidateBind
		if st.FieldBind != "" {
			f.ValidateBind = st.FieldBind
		}
	}
	if f.ResetErrorBind == "" {
		f.ResetErrorBind = DefaultResetErrorBind
	}
	if f.Messages == nil {
		f.Messages = map[string]string{}
	}
	f.OwnPlace = false
	return f
}

// dedupe keeps the first occurrence of every name.
func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
