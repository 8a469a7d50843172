package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/formguard/pkg/i18n"
	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// Container is the validation handle of one form. Every public method takes
// the container lock, so interaction handlers, submissions and the
// auto-clear timer never run concurrently for the same form.
type Container struct {
	mu       sync.Mutex
	id       string
	ui       UI
	state    StateStore
	logger   *slog.Logger
	detached bool

	options *OptionStore
	rules   *RuleRegistry
	fields  *FieldRegistry
	runner  *Runner
}

// Attach binds validation to a UI container. Stored state for id is reused;
// otherwise a new option set is seeded from defaults and WithConfig.
// The whole-form pass is registered with the UI as its submit handler.
func Attach(ctx context.Context, id string, ui UI, state StateStore, opts ...Option) (*Container, error) {
	switch {
	case id == "":
		return nil, ErrInvalidContainerID
	case ui == nil:
		return nil, ErrNilUI
	case state == nil:
		return nil, ErrNilStateStore
	}

	o := attachOptions{clock: SystemClock, observer: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	log := logger.Or(o.logger).With(logger.Container(id))
	if o.catalog == nil {
		o.catalog = validator.NewCatalog()
	}
	if o.translator == nil {
		t, err := i18n.NewDefault(ctx, i18n.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("load default translations: %w", err)
		}
		o.translator = t
	}

	_, err := state.Load(ctx, id)
	fresh := errors.Is(err, ErrOptionsNotFound)
	if err != nil && !fresh {
		return nil, fmt.Errorf("attach %q: %w", id, err)
	}

	c := &Container{id: id, ui: ui, state: state, logger: log}
	c.options = NewOptionStore(id, state)
	c.rules = NewRuleRegistry(c.options, o.catalog, o.translator)
	c.fields = NewFieldRegistry(c.options, c.rules, ui, log)
	c.runner = NewRunner(c.options, c.fields, ui, o.clock, log)
	c.fields.observer = o.observer
	c.runner.observer = o.observer
	c.fields.wrap = c.guard
	c.runner.locker = &c.mu
	c.runner.SetSuccess(o.config.Success)

	if fresh {
		if err := c.seed(ctx, o.config); err != nil {
			return nil, err
		}
	} else {
		if err := c.rules.Seed(ctx); err != nil {
			return nil, err
		}
		c.rebind(o.config)
		if err := c.fields.restore(ctx); err != nil {
			return nil, err
		}
	}

	ui.OnSubmit(c.Submit)
	log.DebugContext(ctx, "container attached", slog.Bool("fresh", fresh))
	return c, nil
}

// ID returns the container id.
func (c *Container) ID() string { return c.id }

// UI returns the collaborator the container is attached to.
func (c *Container) UI() UI { return c.ui }

// Configure applies settings, rules and fields on top of the current state.
func (c *Container) Configure(ctx context.Context, cfg Config) error {
	return c.do(func() error {
		if cfg.Settings != nil {
			st := cfg.Settings.withDefaults()
			err := c.options.Update(ctx, func(set *OptionSet) error {
				set.Settings = st
				return nil
			})
			if err != nil {
				return err
			}
		}
		if cfg.Success != nil {
			c.runner.SetSuccess(cfg.Success)
		}
		return c.configure(ctx, cfg)
	})
}

// Options returns a copy of the current option set.
func (c *Container) Options(ctx context.Context) (*OptionSet, error) {
	var set *OptionSet
	err := c.do(func() (err error) {
		set, err = c.options.Load(ctx)
		return err
	})
	return set, err
}

// Option returns one named option.
func (c *Container) Option(ctx context.Context, name string) (any, error) {
	var v any
	err := c.do(func() (err error) {
		v, err = c.options.Get(ctx, name)
		return err
	})
	return v, err
}

// SetOption writes one named option.
func (c *Container) SetOption(ctx context.Context, name string, value any) error {
	return c.do(func() error {
		_, err := c.options.Set(ctx, name, value)
		return err
	})
}

// SetOptions writes several named options at once.
func (c *Container) SetOptions(ctx context.Context, values map[string]any) error {
	return c.do(func() error {
		_, err := c.options.SetMany(ctx, values)
		return err
	})
}

// SetSuccess replaces the callback run when every field passes.
func (c *Container) SetSuccess(fn FormSuccessFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runner.SetSuccess(fn)
}

// AddRule registers or replaces a rule.
func (c *Container) AddRule(ctx context.Context, name string, rule Rule) error {
	return c.do(func() error { return c.rules.AddRule(ctx, name, rule) })
}

// SetRule registers or replaces a rule.
func (c *Container) SetRule(ctx context.Context, name string, rule Rule) error {
	return c.do(func() error { return c.rules.SetRule(ctx, name, rule) })
}

// SetRules merges rules into the rule table.
func (c *Container) SetRules(ctx context.Context, rules map[string]Rule) error {
	return c.do(func() error { return c.rules.SetRules(ctx, rules) })
}

// GetRule returns a registered rule.
func (c *Container) GetRule(ctx context.Context, name string) (Rule, bool, error) {
	var (
		rule Rule
		ok   bool
	)
	err := c.do(func() (err error) {
		rule, ok, err = c.rules.GetRule(ctx, name)
		return err
	})
	return rule, ok, err
}

// GetRules returns rules by name, or all of them when names is empty.
func (c *Container) GetRules(ctx context.Context, names ...string) (map[string]*Rule, error) {
	var rules map[string]*Rule
	err := c.do(func() (err error) {
		rules, err = c.rules.GetRules(ctx, names...)
		return err
	})
	return rules, err
}

// AddField registers or replaces a field.
func (c *Container) AddField(ctx context.Context, name string, f Field) error {
	return c.do(func() error { return c.fields.AddField(ctx, name, f) })
}

// AddFields registers fields in order.
func (c *Container) AddFields(ctx context.Context, fields ...NamedField) error {
	return c.do(func() error { return c.fields.AddFields(ctx, fields) })
}

// RemoveField deletes a field and its UI bindings.
func (c *Container) RemoveField(ctx context.Context, name string) error {
	return c.do(func() error { return c.fields.RemoveField(ctx, name) })
}

// GetField returns a registered field.
func (c *Container) GetField(ctx context.Context, name string) (Field, bool, error) {
	var (
		f  Field
		ok bool
	)
	err := c.do(func() (err error) {
		f, ok, err = c.fields.GetField(ctx, name)
		return err
	})
	return f, ok, err
}

// GetFields returns fields by name, or all of them when names is empty.
func (c *Container) GetFields(ctx context.Context, names ...string) (map[string]*Field, error) {
	var fields map[string]*Field
	err := c.do(func() (err error) {
		fields, err = c.fields.GetFields(ctx, names...)
		return err
	})
	return fields, err
}

// FieldNames returns field names in registration order.
func (c *Container) FieldNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.do(func() (err error) {
		names, err = c.fields.FieldNames(ctx)
		return err
	})
	return names, err
}

// AddRules attaches rules to a field.
func (c *Container) AddRules(ctx context.Context, field string, rules ...string) error {
	return c.do(func() error { return c.fields.AddRules(ctx, field, rules...) })
}

// RemoveRules detaches rules from a field.
func (c *Container) RemoveRules(ctx context.Context, field string, rules ...string) error {
	return c.do(func() error { return c.fields.RemoveRules(ctx, field, rules...) })
}

// SetMessages merges override messages into a field.
func (c *Container) SetMessages(ctx context.Context, field string, messages map[string]string) error {
	return c.do(func() error { return c.fields.SetMessages(ctx, field, messages) })
}

// GetMessages returns the override messages of a field.
func (c *Container) GetMessages(ctx context.Context, field string) (map[string]string, bool, error) {
	var (
		msgs map[string]string
		ok   bool
	)
	err := c.do(func() (err error) {
		msgs, ok, err = c.fields.GetMessages(ctx, field)
		return err
	})
	return msgs, ok, err
}

// FieldRules resolves the rules attached to a field.
func (c *Container) FieldRules(ctx context.Context, field string) (map[string]*Rule, bool, error) {
	var (
		rules map[string]*Rule
		ok    bool
	)
	err := c.do(func() (err error) {
		rules, ok, err = c.fields.GetRules(ctx, field)
		return err
	})
	return rules, ok, err
}

// Validate checks one field and renders a failure into its message place.
func (c *Container) Validate(ctx context.Context, field string) (FieldResult, error) {
	var res FieldResult
	err := c.do(func() (err error) {
		res, err = c.fields.Validate(ctx, field, "")
		return err
	})
	return res, err
}

// Interact runs the auto-validate flow of a field.
func (c *Container) Interact(ctx context.Context, field string) (FieldResult, error) {
	var res FieldResult
	err := c.do(func() (err error) {
		res, err = c.fields.Interact(ctx, field)
		return err
	})
	return res, err
}

// Reset clears the messages of a field.
func (c *Container) Reset(ctx context.Context, field string) error {
	return c.do(func() error { return c.fields.Reset(ctx, field) })
}

// Submit runs the whole-form pass.
func (c *Container) Submit(ctx context.Context) (*Submission, error) {
	var sub *Submission
	err := c.do(func() (err error) {
		sub, err = c.runner.Submit(ctx)
		return err
	})
	return sub, err
}

// State returns the state of the last submission attempt.
func (c *Container) State() SubmissionState {
	return c.runner.State()
}

// Detach cancels the pending auto-clear, unbinds every field and removes the
// message places allocated for them. With purge the stored state is deleted.
func (c *Container) Detach(ctx context.Context, purge bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return nil
	}
	c.runner.Cancel()
	var errs []error
	if err := c.fields.release(ctx); err != nil {
		errs = append(errs, err)
	}
	if purge {
		if err := c.state.Delete(ctx, c.id); err != nil {
			errs = append(errs, fmt.Errorf("delete state %q: %w", c.id, err))
		}
	}
	c.detached = true
	c.logger.DebugContext(ctx, "container detached", slog.Bool("purge", purge))
	return errors.Join(errs...)
}

// seed stores a new option set built from cfg. When cfg fails to apply the
// stored set is deleted and the UI released.
func (c *Container) seed(ctx context.Context, cfg Config) error {
	set := NewOptionSet()
	if cfg.Settings != nil {
		set.Settings = cfg.Settings.withDefaults()
	}
	if err := c.options.Save(ctx, set); err != nil {
		return err
	}
	err := c.configure(ctx, cfg)
	if err == nil {
		return nil
	}
	errs := []error{err}
	if rerr := c.fields.release(ctx); rerr != nil {
		errs = append(errs, rerr)
	}
	if derr := c.state.Delete(ctx, c.id); derr != nil {
		errs = append(errs, fmt.Errorf("delete partial state %q: %w", c.id, derr))
	}
	c.logger.WarnContext(ctx, "container config rejected", logger.Error(err))
	return errors.Join(errs...)
}

func (c *Container) configure(ctx context.Context, cfg Config) error {
	if len(cfg.Rules) > 0 {
		if err := c.rules.SetRules(ctx, cfg.Rules); err != nil {
			return err
		}
	}
	if err := c.rules.Seed(ctx); err != nil {
		return err
	}
	if len(cfg.Fields) > 0 {
		if err := c.fields.AddFields(ctx, cfg.Fields); err != nil {
			return err
		}
	}
	return nil
}

// rebind registers the process-local callbacks of cfg against stored state.
func (c *Container) rebind(cfg Config) {
	c.rules.mu.Lock()
	for name, rule := range cfg.Rules {
		if rule.Check != nil {
			c.rules.checks[name] = rule.Check
		}
	}
	c.rules.mu.Unlock()

	c.fields.mu.Lock()
	for _, nf := range cfg.Fields {
		if nf.Field.Success != nil {
			c.fields.success[nf.Name] = nf.Field.Success
		}
	}
	c.fields.mu.Unlock()
}

func (c *Container) do(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return ErrDetached
	}
	return fn()
}

func (c *Container) guard(h InteractionHandler) InteractionHandler {
	return func(ctx context.Context, field string) error {
		return c.do(func() error { return h(ctx, field) })
	}
}
