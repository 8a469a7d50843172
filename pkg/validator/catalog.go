package validator

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Predicate reports whether an element satisfies a rule.
type Predicate func(el Element) bool

// Factory builds a predicate from declarative parameters.
type Factory func(params Params) (Predicate, error)

// Catalog maps rule kinds to predicate factories.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewCatalog creates a catalog preloaded with the built-in kinds.
func NewCatalog() *Catalog {
	c := &Catalog{factories: make(map[string]Factory, len(builtins))}
	for kind, f := range builtins {
		c.factories[kind] = f
	}
	return c
}

// Register adds or replaces a kind.
func (c *Catalog) Register(kind string, f Factory) error {
	if kind == "" || f == nil {
		return ErrInvalidFactory
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[kind] = f
	return nil
}

// RegisterPredicate registers a kind that ignores its parameters.
func (c *Catalog) RegisterPredicate(kind string, p Predicate) error {
	if p == nil {
		return ErrInvalidFactory
	}
	return c.Register(kind, func(Params) (Predicate, error) { return p, nil })
}

// Has reports whether kind is registered.
func (c *Catalog) Has(kind string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.factories[kind]
	return ok
}

// Build returns the predicate for kind configured with params.
func (c *Catalog) Build(kind string, params Params) (Predicate, error) {
	c.mu.RLock()
	f, ok := c.factories[kind]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if params == nil {
		params = Params{}
	}
	p, err := f(params)
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", kind, err)
	}
	return p, nil
}

// Kinds returns the registered kinds in lexical order.
func (c *Catalog) Kinds() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	kinds := make([]string, 0, len(c.factories))
	for k := range c.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// MessageKey returns the translation key of a kind's default message.
func MessageKey(kind string) string {
	return "validation." + kind
}

var builtins = map[string]Factory{}

func register(kind string, f Factory) {
	if _, dup := builtins[kind]; dup {
		panic("validator: duplicate builtin kind " + kind)
	}
	builtins[kind] = f
}

// every applies fn to each non-blank value. An element without values is
// checked as a single empty string.
func every(el Element, fn func(string) bool) bool {
	values := el.filled()
	if len(values) == 0 {
		return fn(el.Value())
	}
	return !slices.ContainsFunc(values, func(v string) bool { return !fn(v) })
}

func static(fn func(string) bool) Factory {
	return func(Params) (Predicate, error) {
		return func(el Element) bool { return every(el, fn) }, nil
	}
}
