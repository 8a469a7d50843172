package httpform

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/formguard/pkg/validation"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// Place is a snapshot of one message place.
type Place struct {
	ID       string            `json:"id"`
	Field    string            `json:"field,omitempty"`
	Parent   string            `json:"parent,omitempty"`
	CSS      map[string]string `json:"css,omitempty"`
	Messages []string          `json:"messages"`
	Visible  bool              `json:"visible"`
	Effect   string            `json:"effect,omitempty"`
}

// Document is the server-side model of one rendered form. It implements
// validation.UI: message places, interaction bindings and the submit gate
// live in memory, while element values come from the latest request.
type Document struct {
	turn     sync.Mutex // one request at a time: values, pass, snapshot
	mu       sync.Mutex
	form     string
	elements []string
	values   url.Values
	places   map[string]*Place
	order    []string
	bindings map[string]map[string]validation.InteractionHandler
	submit   validation.SubmitHandler
}

var _ validation.UI = (*Document)(nil)

// NewDocument creates a document for form. Declared elements always exist:
// an element absent from the submitted values reads as empty, not missing.
func NewDocument(form string, elements []string) *Document {
	return &Document{
		form:     form,
		elements: slices.Clone(elements),
		values:   url.Values{},
		places:   make(map[string]*Place),
		bindings: make(map[string]map[string]validation.InteractionHandler),
	}
}

// Form returns the form name.
func (d *Document) Form() string { return d.form }

// SetValues replaces the element values with those of a request.
func (d *Document) SetValues(values url.Values) {
	d.turn.Lock()
	defer d.turn.Unlock()
	d.setValues(values)
}

// Exchange handles one request: it installs values, runs fn and returns the
// places fn left behind. Exchanges on one document never overlap, so fn
// validates exactly these values and the snapshot shows its own messages.
func (d *Document) Exchange(values url.Values, fn func() error) ([]Place, error) {
	d.turn.Lock()
	defer d.turn.Unlock()
	d.setValues(values)
	if err := fn(); err != nil {
		return nil, err
	}
	return d.Places(), nil
}

func (d *Document) setValues(values url.Values) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values = cloneValues(values)
}

// Trigger runs the handler bound to trigger on field. It reports false when
// nothing is bound.
func (d *Document) Trigger(ctx context.Context, field, trigger string) (bool, error) {
	d.mu.Lock()
	h, ok := d.bindings[field][trigger]
	d.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, h(ctx, field)
}

// Triggers returns the bound triggers of field, sorted.
func (d *Document) Triggers(field string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Sorted(maps.Keys(d.bindings[field]))
}

// Submit runs the registered submit handler.
func (d *Document) Submit(ctx context.Context) (*validation.Submission, error) {
	d.mu.Lock()
	h := d.submit
	d.mu.Unlock()
	if h == nil {
		return nil, ErrNoSubmitHandler
	}
	return h(ctx)
}

// Places returns every place in creation order.
func (d *Document) Places() []Place {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Place, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, snapshot(d.places[id]))
	}
	return out
}

// Place returns one place by handle.
func (d *Document) Place(id string) (Place, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.places[id]
	if !ok {
		return Place{}, false
	}
	return snapshot(p), true
}

// CreateMessagePlace implements validation.UI. The handle is the place id
// as a CSS id selector.
func (d *Document) CreateMessagePlace(mp validation.MessagePlace) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := mp.ID
	if id == "" {
		id = fmt.Sprintf("%s_%d", d.form, len(d.order)+1)
	}
	handle := "#" + id
	p := d.ensure(handle)
	p.Field = mp.Field
	p.Parent = mp.Parent
	p.CSS = maps.Clone(mp.CSS)
	return handle
}

// RemoveMessagePlace implements validation.UI.
func (d *Document) RemoveMessagePlace(place string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.places[place]; !ok {
		return
	}
	delete(d.places, place)
	d.order = slices.DeleteFunc(d.order, func(id string) bool { return id == place })
}

// BindInteraction implements validation.UI. triggers is a space separated list.
func (d *Document) BindInteraction(field, triggers string, h validation.InteractionHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range strings.Fields(triggers) {
		if d.bindings[field] == nil {
			d.bindings[field] = make(map[string]validation.InteractionHandler)
		}
		d.bindings[field][t] = h
	}
}

// UnbindInteraction implements validation.UI.
func (d *Document) UnbindInteraction(field, triggers string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range strings.Fields(triggers) {
		delete(d.bindings[field], t)
	}
	if len(d.bindings[field]) == 0 {
		delete(d.bindings, field)
	}
}

// RenderMessage implements validation.UI. Unknown places, such as a shared
// messages area, are created on first use.
func (d *Document) RenderMessage(place, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.ensure(place)
	p.Messages = append(p.Messages, text)
}

// ClearMessages implements validation.UI.
func (d *Document) ClearMessages(place string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.places[place]; ok {
		p.Messages = nil
	}
}

// ShowMessages implements validation.UI.
func (d *Document) ShowMessages(place, effect string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.ensure(place)
	p.Visible = true
	p.Effect = effect
}

// HideMessages implements validation.UI.
func (d *Document) HideMessages(place, effect string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.places[place]; ok {
		p.Visible = false
		p.Effect = effect
	}
}

// FieldElement implements validation.UI.
func (d *Document) FieldElement(name string) (validator.Element, bool) {
	values, ok := d.lookup(name)
	if !ok {
		return validator.Element{}, false
	}
	return validator.NewElement(name, values, d.lookup), true
}

// OnSubmit implements validation.UI.
func (d *Document) OnSubmit(h validation.SubmitHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.submit = h
}

func (d *Document) lookup(name string) ([]string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if values, ok := d.values[name]; ok {
		return slices.Clone(values), true
	}
	if slices.Contains(d.elements, name) {
		return nil, true
	}
	return nil, false
}

func (d *Document) ensure(handle string) *Place {
	p, ok := d.places[handle]
	if !ok {
		p = &Place{ID: handle}
		d.places[handle] = p
		d.order = append(d.order, handle)
	}
	return p
}

func snapshot(p *Place) Place {
	out := *p
	out.CSS = maps.Clone(p.CSS)
	out.Messages = slices.Clone(p.Messages)
	if out.Messages == nil {
		out.Messages = []string{}
	}
	return out
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = slices.Clone(vals)
	}
	return out
}
