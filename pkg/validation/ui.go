package validation

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

// InteractionHandler runs when a bound field trigger fires.
type InteractionHandler func(ctx context.Context, field string) error

// SubmitHandler runs the whole-form pass. Its result is the submission gate.
type SubmitHandler func(ctx context.Context) (*Submission, error)

// MessagePlace describes a message target the UI should allocate.
type MessagePlace struct {
	ID     string
	Field  string
	Parent string
	CSS    map[string]string
}

// UI is the host container the engine renders into and reads values from.
// Trigger strings are opaque to the engine.
type UI interface {
	// CreateMessagePlace allocates a hidden message target and returns its handle.
	CreateMessagePlace(place MessagePlace) string
	RemoveMessagePlace(place string)

	BindInteraction(field, triggers string, h InteractionHandler)
	UnbindInteraction(field, triggers string)

	RenderMessage(place, text string)
	ClearMessages(place string)
	ShowMessages(place, effect string)
	HideMessages(place, effect string)

	// FieldElement returns the control bound to name, if any.
	FieldElement(name string) (validator.Element, bool)

	OnSubmit(h SubmitHandler)
}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules the auto-clear of the shared message area.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Observer receives validation outcomes, e.g. for metrics.
type Observer interface {
	FieldValidated(ctx context.Context, containerID string, res FieldResult)
	SubmissionFinished(ctx context.Context, sub *Submission, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) FieldValidated(context.Context, string, FieldResult) {}

func (nopObserver) SubmissionFinished(context.Context, *Submission, time.Duration) {}

// Observers fans out to several observers.
func Observers(list ...Observer) Observer {
	return multiObserver(list)
}

type multiObserver []Observer

func (m multiObserver) FieldValidated(ctx context.Context, id string, res FieldResult) {
	for _, o := range m {
		o.FieldValidated(ctx, id, res)
	}
}

func (m multiObserver) SubmissionFinished(ctx context.Context, sub *Submission, elapsed time.Duration) {
	for _, o := range m {
		o.SubmissionFinished(ctx, sub, elapsed)
	}
}

// ManualClock is a Clock driven by Advance. Useful in tests of auto-clear timing.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

// NewManualClock returns a clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

type manualTimer struct {
	clock   *ManualClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f at Now()+d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due callbacks synchronously in schedule order.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	pending := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case !t.at.After(c.now):
			t.fired = true
			due = append(due, t.f)
		default:
			pending = append(pending, t)
		}
	}
	c.timers = pending
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

// Pending returns the number of scheduled, unfired, unstopped timers.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
