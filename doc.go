// Package formguard attaches declarative validation to forms.
//
// The engine lives in pkg/validation: a Container binds named rules and
// fields to a UI collaborator, validates fields on interaction and runs a
// whole-form pass on submit. Rules are data (a kind from pkg/validator plus
// parameters), so a container's state can live in memory, Redis, PostgreSQL
// or MongoDB and survive restarts.
//
// This root package only holds ValidationError, the url.Values shaped error
// returned to HTTP clients for a blocked submission:
//
//	sub, err := c.Submit(ctx)
//	if err != nil {
//		return err
//	}
//	if verr := formguard.FromSubmission(sub); verr != nil {
//		return verr // 422 with per-field messages
//	}
//
// Forms are usually declared in YAML (pkg/formdef) and served over HTTP by
// pkg/httpform; cmd/formguard wires everything into a single binary.
package formguard
