package validation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/statemachine"
)

// SubmissionState is a state of the submission state machine.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StatePassed     SubmissionState = "passed"
	StateFailed     SubmissionState = "failed"
	StateSucceeded  SubmissionState = "succeeded"
	StateBlocked    SubmissionState = "blocked"
)

type submissionEvent string

const (
	eventSubmit  submissionEvent = "submit"
	eventPass    submissionEvent = "pass"
	eventFail    submissionEvent = "fail"
	eventProceed submissionEvent = "proceed"
	eventBlock   submissionEvent = "block"
	eventAbort   submissionEvent = "abort"
)

// Submission is the outcome of one whole-form pass.
type Submission struct {
	ContainerID string          `json:"containerId"`
	Valid       bool            `json:"valid"`
	Proceed     bool            `json:"proceed"`
	Stopped     bool            `json:"stopped,omitempty"`
	State       SubmissionState `json:"state"`
	Results     []FieldResult   `json:"results"`
	Messages    []string        `json:"messages,omitempty"`
}

// Failed returns the results of fields that block the submission.
func (s *Submission) Failed() []FieldResult {
	var out []FieldResult
	for _, r := range s.Results {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}

// Runner executes whole-form validation passes for one container.
// Its methods are not safe for concurrent use; Container serializes them.
type Runner struct {
	options  *OptionStore
	fields   *FieldRegistry
	ui       UI
	clock    Clock
	logger   *slog.Logger
	observer Observer
	success  FormSuccessFunc
	machine  *statemachine.Machine[SubmissionState, submissionEvent]

	// locker is held by the auto-clear callback while it touches the UI.
	locker sync.Locker

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

// NewRunner creates a runner. A nil clock uses the wall clock.
func NewRunner(options *OptionStore, fields *FieldRegistry, ui UI, clock Clock, log *slog.Logger) *Runner {
	if clock == nil {
		clock = SystemClock
	}
	r := &Runner{
		options:  options,
		fields:   fields,
		ui:       ui,
		clock:    clock,
		logger:   logger.Or(log),
		observer: nopObserver{},
		success:  func(context.Context, *Submission) bool { return true },
		locker:   &sync.Mutex{},
	}
	r.machine = statemachine.MustNew(StateIdle,
		statemachine.WithTransition(StateIdle, StateValidating, eventSubmit),
		statemachine.WithTransition(StateSucceeded, StateValidating, eventSubmit),
		statemachine.WithTransition(StateBlocked, StateValidating, eventSubmit),
		statemachine.WithTransition(StateValidating, StatePassed, eventPass),
		statemachine.WithTransition(StateValidating, StateFailed, eventFail),
		statemachine.WithTransition(StateValidating, StateIdle, eventAbort),
		statemachine.WithTransition(StatePassed, StateSucceeded, eventProceed,
			statemachine.WithAction[SubmissionState, submissionEvent](r.invokeSuccess)),
		statemachine.WithTransition(StateFailed, StateBlocked, eventBlock),
	)
	return r
}

// State returns the state of the last submission attempt.
func (r *Runner) State() SubmissionState {
	return r.machine.Current()
}

// SetSuccess replaces the callback run when every field passes.
func (r *Runner) SetSuccess(fn FormSuccessFunc) {
	if fn == nil {
		fn = func(context.Context, *Submission) bool { return true }
	}
	r.success = fn
}

// Submit runs the whole-form pass. Fields are validated in registration
// order into the shared messages place; with StopOnError the pass ends at the
// first failing field. The shared place is cleared after ErrorTime unless a
// newer submission reschedules it.
func (r *Runner) Submit(ctx context.Context) (*Submission, error) {
	start := r.clock.Now()
	r.cancel()

	set, err := r.options.Load(ctx)
	if err != nil {
		return nil, err
	}
	st := set.Settings

	if err := r.machine.Fire(ctx, eventSubmit, nil); err != nil {
		return nil, fmt.Errorf("start submission: %w", err)
	}

	place := st.MessagesPlace
	if place != "" {
		r.ui.ShowMessages(place, st.ErrorEffect)
		r.ui.ClearMessages(place)
	} else {
		for _, name := range set.Order {
			if fp := set.Fields[name].MessagePlace; fp != "" {
				r.ui.ClearMessages(fp)
			}
		}
	}

	sub := &Submission{ContainerID: r.options.ID(), Valid: true}
	for i, name := range set.Order {
		res, err := r.fields.validate(ctx, set, name, place)
		if err != nil {
			_ = r.machine.Fire(ctx, eventAbort, nil)
			return nil, err
		}
		sub.Results = append(sub.Results, res)
		if res.Passed() {
			r.fields.succeed(ctx, name)
			continue
		}
		sub.Valid = false
		if res.Message != "" {
			sub.Messages = append(sub.Messages, res.Message)
		}
		if st.StopOnError {
			sub.Stopped = i < len(set.Order)-1
			break
		}
	}

	if place != "" {
		r.schedule(place, st)
	}

	if sub.Valid {
		err = r.fire(ctx, sub, eventPass, eventProceed)
	} else {
		err = r.fire(ctx, sub, eventFail, eventBlock)
	}
	if err != nil {
		return nil, err
	}
	sub.State = r.machine.Current()

	elapsed := r.clock.Now().Sub(start)
	r.logger.InfoContext(ctx, "form submitted",
		logger.Container(sub.ContainerID),
		logger.State(string(sub.State)),
		slog.Bool("valid", sub.Valid),
		slog.Bool("proceed", sub.Proceed),
		slog.Int("fields", len(sub.Results)),
	)
	r.observer.SubmissionFinished(ctx, sub, elapsed)
	return sub, nil
}

// Cancel stops the pending auto-clear, if any.
func (r *Runner) Cancel() {
	r.cancel()
}

func (r *Runner) fire(ctx context.Context, sub *Submission, events ...submissionEvent) error {
	for _, ev := range events {
		if err := r.machine.Fire(ctx, ev, sub); err != nil {
			return fmt.Errorf("submission %s: %w", ev, err)
		}
	}
	return nil
}

func (r *Runner) invokeSuccess(ctx context.Context, _, _ SubmissionState, _ submissionEvent, data any) error {
	sub, ok := data.(*Submission)
	if !ok {
		return fmt.Errorf("unexpected submission payload %T", data)
	}
	sub.Proceed = r.success(ctx, sub)
	return nil
}

func (r *Runner) cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Runner) schedule(place string, st Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gen := r.gen
	r.timer = r.clock.AfterFunc(st.ErrorTime, func() {
		r.locker.Lock()
		defer r.locker.Unlock()

		r.mu.Lock()
		current := r.gen == gen
		if current {
			r.timer = nil
		}
		r.mu.Unlock()
		if !current {
			return
		}
		r.ui.ClearMessages(place)
		r.ui.HideMessages(place, st.ErrorEffect)
	})
}
