package httpform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/formguard/pkg/formdef"
	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/metrics"
	"github.com/dmitrymomot/formguard/pkg/requestid"
	"github.com/dmitrymomot/formguard/pkg/validation"
)

// SessionHeader carries the client session a form container is keyed by.
const SessionHeader = "X-Form-Session"

// FormSource resolves form definitions by name. *formdef.Holder implements it.
type FormSource interface {
	Form(name string) (*formdef.Definition, error)
}

// LanguageMatcher picks a supported language for an Accept-Language header.
// *i18n.Translator implements it.
type LanguageMatcher interface {
	Match(acceptLanguage string) string
}

// Server exposes form containers over HTTP. Each (form, session) pair is
// one container in the Manager.
type Server struct {
	forms    FormSource
	manager  *validation.Manager
	matcher  LanguageMatcher
	metrics  *metrics.Collector
	logger   *slog.Logger
	checks   []func(context.Context) error
	timeout  time.Duration
	maxBytes int64
	mux      http.Handler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithLanguageMatcher selects the language of new containers from Accept-Language.
func WithLanguageMatcher(m LanguageMatcher) ServerOption {
	return func(s *Server) { s.matcher = m }
}

// WithMetrics records request metrics and serves /metrics.
func WithMetrics(c *metrics.Collector) ServerOption {
	return func(s *Server) { s.metrics = c }
}

// WithHealthcheck adds a readiness probe to /healthz.
func WithHealthcheck(fn func(context.Context) error) ServerOption {
	return func(s *Server) { s.checks = append(s.checks, fn) }
}

// WithRequestTimeout bounds the handling time of a request.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.timeout = d }
}

// WithMaxBodyBytes limits request bodies.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *Server) { s.maxBytes = n }
}

// NewServer creates a server over forms and manager.
func NewServer(forms FormSource, manager *validation.Manager, opts ...ServerOption) *Server {
	s := &Server{
		forms:    forms,
		manager:  manager,
		timeout:  30 * time.Second,
		maxBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.Or(s.logger).With(logger.Component("httpform"))
	s.mux = s.Router()
	return s
}

// Router returns the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.observe)
	}
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.handle(s.health))
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/forms/{form}", func(r chi.Router) {
		r.Get("/", s.handle(s.describe))
		r.Get("/messages", s.handle(s.messages))
		r.Post("/submit", s.handle(s.submit))
		r.Post("/fields/{field}/events/{trigger}", s.handle(s.event))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handle(fn func(w http.ResponseWriter, r *http.Request) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := fn(w, r)
		if resp == nil {
			resp = JSONError(errors.New("handler returned nil response"))
		}
		if err := resp.Render(w, r); err != nil {
			s.logger.ErrorContext(r.Context(), "render response", logger.Error(err))
		}
	}
}

// session returns the client session, generating one for new clients.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, error) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = uuid.NewString()
	} else if !requestid.Valid(id) {
		return "", ErrInvalidSession
	}
	w.Header().Set(SessionHeader, id)
	return id, nil
}

// container returns the live container of the request's form and session.
func (s *Server) container(w http.ResponseWriter, r *http.Request) (*validation.Container, *Document, error) {
	form := chi.URLParam(r, "form")
	def, err := s.forms.Form(form)
	if err != nil {
		if errors.Is(err, formdef.ErrFormNotFound) {
			return nil, nil, ErrFormNotFound
		}
		return nil, nil, err
	}
	session, err := s.session(w, r)
	if err != nil {
		return nil, nil, err
	}

	cfg := def.Config()
	if accept := r.Header.Get("Accept-Language"); accept != "" && s.matcher != nil {
		cfg.Settings.Language = s.matcher.Match(accept)
	}
	fields := def.FieldNames()
	c, created, err := s.manager.Ensure(r.Context(), form+":"+session, func() validation.UI {
		return NewDocument(form, fields)
	}, validation.WithConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	doc, ok := c.UI().(*Document)
	if !ok {
		return nil, nil, ErrBadContainer
	}
	if created {
		s.logger.DebugContext(r.Context(), "form container attached", logger.Form(form), logger.Container(c.ID()))
	}
	return c, doc, nil
}

// failure converts domain errors into HTTP answers.
func (s *Server) failure(r *http.Request, err error) Response {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
	case errors.Is(err, validation.ErrFieldNotFound):
		err = ErrFieldNotFound
	case errors.Is(err, validation.ErrDetached):
		err = ErrConflict
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			logger.Error(err))
	}
	return JSONError(err)
}
