package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Guard decides whether a transition may proceed.
type Guard[S, E ~string] func(ctx context.Context, from S, event E, data any) bool

// Action runs a side effect before the state changes. An error aborts the transition.
type Action[S, E ~string] func(ctx context.Context, from, to S, event E, data any) error

// Listener observes a completed transition.
type Listener[S, E ~string] func(ctx context.Context, from, to S, event E)

// Transition moves the machine from From to To when Event fires.
type Transition[S, E ~string] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]
	Actions []Action[S, E]
}

type key[S, E ~string] struct {
	from  S
	event E
}

// Machine is a finite-state machine over states S and events E.
type Machine[S, E ~string] struct {
	mu          sync.Mutex
	initial     S
	current     S
	transitions map[key[S, E]][]Transition[S, E]
	listeners   []Listener[S, E]
}

// New creates a machine in the initial state.
func New[S, E ~string](initial S, opts ...Option[S, E]) (*Machine[S, E], error) {
	if initial == "" {
		return nil, fmt.Errorf("initial state cannot be empty")
	}
	m := &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[key[S, E]][]Transition[S, E]),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is like New but panics on a configuration error.
func MustNew[S, E ~string](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// Add registers a transition.
func (m *Machine[S, E]) Add(t Transition[S, E]) error {
	if t.From == "" || t.To == "" || t.Event == "" {
		return ErrInvalidTransition
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key[S, E]{t.From, t.Event}
	m.transitions[k] = append(m.transitions[k], t)
	return nil
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Fire applies event to the current state.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.current
	t, err := m.pick(ctx, from, event, data)
	if err != nil {
		return err
	}

	for _, action := range t.Actions {
		if err := action(ctx, from, t.To, event, data); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.To
	for _, l := range m.listeners {
		l(ctx, from, t.To, event)
	}
	return nil
}

// CanFire reports whether Fire would find a transition whose guards pass.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.pick(ctx, m.current, event, data)
	return err == nil
}

// Reset returns the machine to its initial state without running actions.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

func (m *Machine[S, E]) pick(ctx context.Context, from S, event E, data any) (*Transition[S, E], error) {
	candidates := m.transitions[key[S, E]{from, event}]
	if len(candidates) == 0 {
		return nil, &ErrNoTransitionAvailable{State: string(from), Event: string(event)}
	}

next:
	for i := range candidates {
		for _, guard := range candidates[i].Guards {
			if guard != nil && !guard(ctx, from, event, data) {
				continue next
			}
		}
		return &candidates[i], nil
	}
	return nil, &ErrTransitionRejected{State: string(from), Event: string(event)}
}
