// Package validator provides the predicate side of form validation: the
// Element a rule is evaluated against, the Predicate signature, and a Catalog
// of named rule kinds that turn declarative parameters into predicates.
//
// Rules declared as data (in YAML form definitions or in a persisted option
// set) carry only a kind name and parameters. The Catalog rebuilds the
// predicate on demand, so rules survive a round trip through Redis, Postgres
// or MongoDB without carrying code.
//
// # Built-in kinds
//
//   - required, min_length, max_length, length
//   - email, url, phone, alpha, alphanumeric, numeric, pattern
//   - integer, min, max, between
//   - one_of, not_one_of, min_items, max_items
//   - uuid, date, date_before, date_after
//   - equal_to, not_equal_to (cross-field)
//   - strong_password
//   - expr (boolean expression evaluated with expr-lang)
//
// Every kind has a translation key of the form "validation.<kind>" that the
// i18n package resolves into a default failure message.
//
// # Usage
//
//	catalog := validator.NewCatalog()
//	check, err := catalog.Build("min_length", validator.Params{"min": 3})
//	if err != nil {
//	    // unknown kind or bad parameters
//	}
//	ok := check(validator.NewElement("name", []string{"Ann"}, nil))
//
// Custom kinds are registered with Catalog.Register. A Catalog is safe for
// concurrent use.
package validator
