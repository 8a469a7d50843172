package logger

import (
	"log/slog"
	"strconv"
)

// Error records err under "error". A nil error yields an empty attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Container tags a record with a container id.
func Container(id string) slog.Attr { return slog.String("container", id) }

// Field tags a record with a field name.
func Field(name string) slog.Attr { return slog.String("field", name) }

// Rule tags a record with a rule name.
func Rule(name string) slog.Attr { return slog.String("rule", name) }

// Form tags a record with a form name.
func Form(name string) slog.Attr { return slog.String("form", name) }

// State tags a record with a submission state.
func State(name string) slog.Attr { return slog.String("state", name) }

// Component names the package that logged the record.
func Component(name string) slog.Attr { return slog.String("component", name) }
