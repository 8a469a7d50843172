// Package statemachine implements a small finite-state machine with typed
// string states and events.
//
// A Machine is built from a list of transitions. Each transition may carry
// guards that veto it and actions that run before the state changes; when
// several transitions share a source state and event, the first one whose
// guards pass wins. Listeners observe every completed transition.
//
//	type Phase string
//	type Signal string
//
//	m := statemachine.MustNew[Phase, Signal]("draft",
//	    statemachine.WithTransition[Phase, Signal]("draft", "review", "submit"),
//	    statemachine.WithTransition[Phase, Signal]("review", "approved", "approve"),
//	)
//	if err := m.Fire(ctx, "submit", nil); err != nil {
//	    // statemachine.IsNoTransitionAvailableError(err) ...
//	}
//
// A Machine is safe for concurrent use. Guards, actions and listeners run
// while the machine lock is held and must not call back into the machine.
package statemachine
