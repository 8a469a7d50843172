package validation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

// Translator resolves localized default messages.
type Translator interface {
	T(lang, key string, args ...string) string
}

type keyTranslator struct{}

func (keyTranslator) T(_, key string, _ ...string) string { return key }

type builtPredicate struct {
	fingerprint string
	pred        validator.Predicate
}

// RuleRegistry is the named rule table of one container. The table itself
// lives in the OptionStore; process-local checks and built predicates are
// kept here.
type RuleRegistry struct {
	options    *OptionStore
	catalog    *validator.Catalog
	translator Translator

	mu     sync.Mutex
	checks map[string]validator.Predicate
	built  map[string]builtPredicate
}

// NewRuleRegistry creates a registry over options. A nil catalog uses the
// built-in kinds; a nil translator renders message keys verbatim.
func NewRuleRegistry(options *OptionStore, catalog *validator.Catalog, translator Translator) *RuleRegistry {
	if catalog == nil {
		catalog = validator.NewCatalog()
	}
	if translator == nil {
		translator = keyTranslator{}
	}
	return &RuleRegistry{
		options:    options,
		catalog:    catalog,
		translator: translator,
		checks:     make(map[string]validator.Predicate),
		built:      make(map[string]builtPredicate),
	}
}

// Seed installs the built-in required rule unless the table already has one.
func (r *RuleRegistry) Seed(ctx context.Context) error {
	set, err := r.options.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := set.Rules[RequiredRule]; ok {
		return nil
	}
	set.Rules[RequiredRule] = Rule{
		Kind:    RequiredRule,
		Message: r.translator.T(set.Settings.Language, validator.MessageKey(RequiredRule)),
	}
	return r.options.Save(ctx, set)
}

// GetRule returns the rule registered under name.
func (r *RuleRegistry) GetRule(ctx context.Context, name string) (Rule, bool, error) {
	set, err := r.options.Load(ctx)
	if err != nil {
		return Rule{}, false, err
	}
	rule, ok := set.Rules[name]
	if !ok {
		return Rule{}, false, nil
	}
	return r.attach(name, rule), true, nil
}

// GetRules returns the rules for names, or the whole table when names is
// empty. Requested names that are not registered map to nil.
func (r *RuleRegistry) GetRules(ctx context.Context, names ...string) (map[string]*Rule, error) {
	set, err := r.options.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		out := make(map[string]*Rule, len(set.Rules))
		for name, rule := range set.Rules {
			attached := r.attach(name, rule)
			out[name] = &attached
		}
		return out, nil
	}
	out := make(map[string]*Rule, len(names))
	for _, name := range names {
		rule, ok := set.Rules[name]
		if !ok {
			out[name] = nil
			continue
		}
		attached := r.attach(name, rule)
		out[name] = &attached
	}
	return out, nil
}

// SetRule inserts or replaces a rule. Rules that cannot be built into a
// predicate are rejected.
func (r *RuleRegistry) SetRule(ctx context.Context, name string, rule Rule) error {
	return r.SetRules(ctx, map[string]Rule{name: rule})
}

// AddRule is SetRule.
func (r *RuleRegistry) AddRule(ctx context.Context, name string, rule Rule) error {
	return r.SetRule(ctx, name, rule)
}

// SetRules merges rules into the table in a single write. Nothing is written
// when any rule is rejected.
func (r *RuleRegistry) SetRules(ctx context.Context, rules map[string]Rule) error {
	prepared := make(map[string]Rule, len(rules))
	var errs []error
	for name, rule := range rules {
		p, err := r.prepare(name, rule)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		prepared[name] = p
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	err := r.options.Update(ctx, func(set *OptionSet) error {
		for name, rule := range prepared {
			rule.Check = nil
			set.Rules[name] = rule
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, rule := range prepared {
		delete(r.built, name)
		if rule.Check != nil {
			r.checks[name] = rule.Check
		} else {
			delete(r.checks, name)
		}
	}
	return nil
}

// Resolve returns the predicate and descriptor of a registered rule.
func (r *RuleRegistry) Resolve(ctx context.Context, name string) (validator.Predicate, Rule, error) {
	set, err := r.options.Load(ctx)
	if err != nil {
		return nil, Rule{}, err
	}
	return r.resolve(set, name)
}

// Message returns the failure text of rule in lang: its own message, or the
// localized default of its kind.
func (r *RuleRegistry) Message(lang string, rule Rule) string {
	if rule.Message != "" {
		return rule.Message
	}
	key := rule.TranslationKey
	if key == "" {
		key = validator.MessageKey(rule.Kind)
	}
	return r.translator.T(lang, key, rule.Params.Args()...)
}

func (r *RuleRegistry) resolve(set *OptionSet, name string) (validator.Predicate, Rule, error) {
	rule, ok := set.Rules[name]
	if !ok {
		return nil, Rule{}, fmt.Errorf("%w: %q", ErrRuleNotFound, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if check, ok := r.checks[name]; ok {
		rule.Check = check
		return check, rule, nil
	}
	if rule.Kind == "" {
		return nil, rule, fmt.Errorf("%w: rule %q has no kind and no check in this process", ErrUnknownRuleKind, name)
	}

	fp := fingerprint(rule)
	if b, ok := r.built[name]; ok && b.fingerprint == fp {
		return b.pred, rule, nil
	}
	pred, err := r.build(name, rule)
	if err != nil {
		return nil, rule, err
	}
	r.built[name] = builtPredicate{fingerprint: fp, pred: pred}
	return pred, rule, nil
}

// prepare defaults the kind to the rule name and checks that the rule builds.
func (r *RuleRegistry) prepare(name string, rule Rule) (Rule, error) {
	if name == "" {
		return rule, fmt.Errorf("%w: empty name", ErrInvalidRule)
	}
	if rule.Check != nil {
		return rule.clone(), nil
	}
	if rule.Kind == "" {
		rule.Kind = name
	}
	if _, err := r.build(name, rule); err != nil {
		return rule, err
	}
	return rule.clone(), nil
}

func (r *RuleRegistry) build(name string, rule Rule) (validator.Predicate, error) {
	pred, err := r.catalog.Build(rule.Kind, rule.Params)
	switch {
	case errors.Is(err, validator.ErrUnknownKind):
		return nil, fmt.Errorf("%w: rule %q: %w", ErrUnknownRuleKind, name, err)
	case err != nil:
		return nil, fmt.Errorf("%w: rule %q: %w", ErrInvalidRule, name, err)
	}
	return pred, nil
}

func (r *RuleRegistry) attach(name string, rule Rule) Rule {
	rule = rule.clone()
	r.mu.Lock()
	rule.Check = r.checks[name]
	r.mu.Unlock()
	return rule
}

func fingerprint(rule Rule) string {
	return rule.Kind + "|" + fmt.Sprint(map[string]any(rule.Params))
}

// isRequired reports whether any of names is the required rule.
func isRequired(set *OptionSet, names []string) bool {
	for _, name := range names {
		if name == RequiredRule {
			return true
		}
		if rule, ok := set.Rules[name]; ok && rule.Kind == RequiredRule {
			return true
		}
	}
	return false
}
