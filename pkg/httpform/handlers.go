package httpform

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/formguard"
	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/validation"
)

// FieldView describes a registered field.
type FieldView struct {
	Name           string            `json:"name"`
	Rules          []string          `json:"rules"`
	Auto           bool              `json:"auto"`
	ValidateBind   string            `json:"validateBind,omitempty"`
	ResetErrorBind string            `json:"resetErrorBind,omitempty"`
	MessagePlace   string            `json:"messagePlace,omitempty"`
	Messages       map[string]string `json:"messages,omitempty"`
	Triggers       []string          `json:"triggers,omitempty"`
}

// FormView is the answer of GET /forms/{form}.
type FormView struct {
	Form       string              `json:"form"`
	Container  string              `json:"container"`
	Settings   validation.Settings `json:"settings"`
	Fields     []FieldView         `json:"fields"`
	Places     []Place             `json:"places"`
	Submission string              `json:"submission"`
}

// EventView is the answer of an interaction event.
type EventView struct {
	Field   string  `json:"field"`
	Trigger string  `json:"trigger"`
	Places  []Place `json:"places"`
}

func (s *Server) describe(w http.ResponseWriter, r *http.Request) Response {
	c, doc, err := s.container(w, r)
	if err != nil {
		return s.failure(r, err)
	}
	set, err := c.Options(r.Context())
	if err != nil {
		return s.failure(r, err)
	}

	view := FormView{
		Form:       doc.Form(),
		Container:  c.ID(),
		Settings:   set.Settings,
		Fields:     make([]FieldView, 0, len(set.Order)),
		Places:     doc.Places(),
		Submission: string(c.State()),
	}
	for _, name := range set.Order {
		f := set.Fields[name]
		view.Fields = append(view.Fields, FieldView{
			Name:           name,
			Rules:          f.Rules,
			Auto:           f.Auto,
			ValidateBind:   f.ValidateBind,
			ResetErrorBind: f.ResetErrorBind,
			MessagePlace:   f.MessagePlace,
			Messages:       f.Messages,
			Triggers:       doc.Triggers(name),
		})
	}
	return JSON(view)
}

func (s *Server) messages(w http.ResponseWriter, r *http.Request) Response {
	_, doc, err := s.container(w, r)
	if err != nil {
		return s.failure(r, err)
	}
	return JSON(doc.Places())
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) Response {
	_, doc, err := s.container(w, r)
	if err != nil {
		return s.failure(r, err)
	}
	values, err := s.values(w, r)
	if err != nil {
		return s.failure(r, err)
	}
	var sub *validation.Submission
	places, err := doc.Exchange(values, func() (err error) {
		sub, err = doc.Submit(r.Context())
		return err
	})
	if err != nil {
		return s.failure(r, err)
	}
	meta := map[string]any{
		"state":   sub.State,
		"proceed": sub.Proceed,
		"places":  places,
	}
	if verr := formguard.FromSubmission(sub); verr != nil {
		if len(sub.Messages) > 0 {
			meta["messages"] = sub.Messages
		}
		return JSONError(verr, WithMeta(meta))
	}
	return JSON(sub, WithMeta(meta))
}

func (s *Server) event(w http.ResponseWriter, r *http.Request) Response {
	c, doc, err := s.container(w, r)
	if err != nil {
		return s.failure(r, err)
	}
	field, trigger := chi.URLParam(r, "field"), chi.URLParam(r, "trigger")
	if _, ok, err := c.GetField(r.Context(), field); err != nil {
		return s.failure(r, err)
	} else if !ok {
		return s.failure(r, ErrFieldNotFound)
	}

	values, err := s.values(w, r)
	if err != nil {
		return s.failure(r, err)
	}
	var bound bool
	places, err := doc.Exchange(values, func() (err error) {
		bound, err = doc.Trigger(r.Context(), field, trigger)
		return err
	})
	if err != nil {
		return s.failure(r, err)
	}
	if !bound {
		return s.failure(r, ErrNoBinding)
	}
	return JSON(EventView{Field: field, Trigger: trigger, Places: places})
}

func (s *Server) health(_ http.ResponseWriter, r *http.Request) Response {
	for _, check := range s.checks {
		if err := check(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "readiness check failed", logger.Error(err))
			return JSONError(ErrNotReady)
		}
	}
	return JSON(map[string]string{"status": "ok"})
}
