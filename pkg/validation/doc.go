// Package validation attaches declarative field validation to a form-like
// container.
//
// A Container owns three cooperating components built over one persisted
// OptionSet:
//
//   - OptionStore reads and writes the option set through a StateStore,
//     reloading before every read and saving after every write.
//   - RuleRegistry holds named rules. Rules are declared as a kind plus
//     parameters resolved through a validator.Catalog, or carry a
//     process-local predicate. The table is seeded with "required".
//   - FieldRegistry holds field descriptors: attached rules, override
//     messages, message place and interaction triggers. It validates one
//     field at a time.
//
// A Runner performs the whole-form pass on submission, honouring
// StopOnError, and schedules the auto-clear of the shared message area.
// Each attempt walks a small state machine:
//
//	idle -> validating -> passed -> succeeded
//	                   \-> failed -> blocked
//
// Everything visual is delegated to the UI interface; trigger names and
// message place handles are opaque to this package.
//
// # Usage
//
//	store := validation.NewMemoryStateStore()
//	c, err := validation.Attach(ctx, "signup", ui, store,
//	    validation.WithConfig(validation.Config{
//	        Rules: map[string]validation.Rule{
//	            "email": {Kind: "email"},
//	        },
//	        Fields: []validation.NamedField{
//	            {Name: "email", Field: validation.Field{Rules: []string{"required", "email"}, Auto: true}},
//	        },
//	    }),
//	)
//	sub, err := c.Submit(ctx)
//	if sub.Proceed { ... }
//
// # Errors
//
// Configuration problems are errors: ErrRuleNotFound, ErrUnknownRuleKind,
// ErrFieldNotFound. Failing validation is data, reported through
// FieldResult and Submission.
package validation
