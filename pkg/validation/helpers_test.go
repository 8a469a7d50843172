package validation_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/i18n"
	"github.com/dmitrymomot/formguard/pkg/validation"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// fakeUI records every call the engine makes against the host container.
type fakeUI struct {
	mu       sync.Mutex
	values   map[string][]string
	places   map[string][]string
	visible  map[string]bool
	created  []validation.MessagePlace
	removed  []string
	bindings map[string]map[string]validation.InteractionHandler
	submit   validation.SubmitHandler
}

func newFakeUI(values map[string]string) *fakeUI {
	u := &fakeUI{
		values:   make(map[string][]string),
		places:   make(map[string][]string),
		visible:  make(map[string]bool),
		bindings: make(map[string]map[string]validation.InteractionHandler),
	}
	for k, v := range values {
		u.values[k] = []string{v}
	}
	return u
}

func (u *fakeUI) set(name, value string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.values[name] = []string{value}
}

func (u *fakeUI) CreateMessagePlace(p validation.MessagePlace) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.created = append(u.created, p)
	handle := "#" + p.ID
	if _, ok := u.places[handle]; !ok {
		u.places[handle] = nil
	}
	return handle
}

func (u *fakeUI) RemoveMessagePlace(place string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.places, place)
	delete(u.visible, place)
	u.removed = append(u.removed, place)
}

func (u *fakeUI) BindInteraction(field, triggers string, h validation.InteractionHandler) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.bindings[field] == nil {
		u.bindings[field] = make(map[string]validation.InteractionHandler)
	}
	u.bindings[field][triggers] = h
}

func (u *fakeUI) UnbindInteraction(field, triggers string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.bindings[field], triggers)
	if len(u.bindings[field]) == 0 {
		delete(u.bindings, field)
	}
}

func (u *fakeUI) RenderMessage(place, text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.places[place] = append(u.places[place], text)
}

func (u *fakeUI) ClearMessages(place string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.places[place]; ok {
		u.places[place] = nil
	}
}

func (u *fakeUI) ShowMessages(place, _ string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.visible[place] = true
}

func (u *fakeUI) HideMessages(place, _ string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.visible[place] = false
}

func (u *fakeUI) FieldElement(name string) (validator.Element, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	values, ok := u.values[name]
	if !ok {
		return validator.Element{}, false
	}
	return validator.NewElement(name, slices.Clone(values), u.lookup), true
}

func (u *fakeUI) lookup(name string) ([]string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	values, ok := u.values[name]
	return slices.Clone(values), ok
}

func (u *fakeUI) OnSubmit(h validation.SubmitHandler) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.submit = h
}

func (u *fakeUI) messages(place string) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return slices.Clone(u.places[place])
}

func (u *fakeUI) hasPlace(place string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.places[place]
	return ok
}

func (u *fakeUI) isVisible(place string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.visible[place]
}

func (u *fakeUI) handler(field, triggers string) validation.InteractionHandler {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.bindings[field][triggers]
}

func (u *fakeUI) fire(ctx context.Context, field, triggers string) error {
	h := u.handler(field, triggers)
	if h == nil {
		return nil
	}
	return h(ctx, field)
}

// counter returns a rule whose predicate counts its calls.
func counter(pass bool, calls *int) validation.Rule {
	return validation.Rule{
		Message: "counted",
		Check: func(validator.Element) bool {
			*calls++
			return pass
		},
	}
}

func enTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewDefault(context.Background())
	require.NoError(t, err)
	return tr
}

type fixture struct {
	ui     *fakeUI
	state  *validation.MemoryStateStore
	opts   *validation.OptionStore
	rules  *validation.RuleRegistry
	fields *validation.FieldRegistry
}

func newFixture(t *testing.T, values map[string]string) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{ui: newFakeUI(values), state: validation.NewMemoryStateStore()}
	f.opts = validation.NewOptionStore("form", f.state)
	f.rules = validation.NewRuleRegistry(f.opts, nil, enTranslator(t))
	require.NoError(t, f.rules.Seed(ctx))
	f.fields = validation.NewFieldRegistry(f.opts, f.rules, f.ui, nil)
	return f
}

// flakyStore fails Save while failSave is set.
type flakyStore struct {
	*validation.MemoryStateStore
	failSave atomic.Bool
}

func (s *flakyStore) Save(ctx context.Context, id string, set *validation.OptionSet) error {
	if s.failSave.Load() {
		return errSaveFailed
	}
	return s.MemoryStateStore.Save(ctx, id, set)
}

var errSaveFailed = errors.New("save failed")
