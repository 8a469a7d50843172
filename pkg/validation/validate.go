package validation

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/formguard/pkg/logger"
)

// Validate checks one field against its rules and renders the first failure
// into place. An empty place falls back to the field's own place, then to the
// shared messages place. The whole-form pass passes the shared place, so
// there the field place is used only when no shared place is configured and
// the message would otherwise have nowhere to render.
//
// Rules run in attachment order and stop at the first failure. An empty value
// is only checked when the field carries the required rule. A field without a
// bound element yields StatusMissing. Unregistered fields and unresolvable
// rules are errors; failing rules are not.
func (r *FieldRegistry) Validate(ctx context.Context, name, place string) (FieldResult, error) {
	set, err := r.options.Load(ctx)
	if err != nil {
		return FieldResult{}, err
	}
	return r.validate(ctx, set, name, place)
}

func (r *FieldRegistry) validate(ctx context.Context, set *OptionSet, name, place string) (FieldResult, error) {
	f, ok := set.Fields[name]
	if !ok {
		return FieldResult{}, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	if place == "" {
		place = f.MessagePlace
	}
	if place == "" {
		place = set.Settings.MessagesPlace
	}

	res := FieldResult{Field: name}
	el, ok := r.ui.FieldElement(name)
	switch {
	case !ok:
		res.Status = StatusMissing
		r.logger.WarnContext(ctx, "field has no bound element",
			logger.Container(r.options.ID()), logger.Field(name))
	case !isRequired(set, f.Rules) && el.IsEmpty():
		res.Status = StatusSkipped
	default:
		res.Status = StatusValid
		for _, ruleName := range f.Rules {
			pred, rule, err := r.rules.resolve(set, ruleName)
			if err != nil {
				return FieldResult{}, fmt.Errorf("validate field %q: %w", name, err)
			}
			if pred(el) {
				continue
			}
			msg, ok := f.Messages[ruleName]
			if !ok || msg == "" {
				msg = r.rules.Message(set.Settings.Language, rule)
			}
			res.Status, res.Rule, res.Message = StatusInvalid, ruleName, msg
			if place != "" {
				r.ui.RenderMessage(place, msg)
				r.ui.ShowMessages(place, "")
			}
			break
		}
	}

	r.logger.DebugContext(ctx, "field validated",
		logger.Container(r.options.ID()),
		logger.Field(name),
		logger.Rule(res.Rule),
		"status", res.Status,
	)
	r.observer.FieldValidated(ctx, r.options.ID(), res)
	return res, nil
}
