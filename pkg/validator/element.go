package validator

import "strings"

// Element is the bound form control a predicate is evaluated against.
// A control may carry several values (checkbox groups, multi-selects).
type Element struct {
	Name   string
	Values []string

	form func(name string) ([]string, bool)
}

// NewElement creates an element. form resolves sibling controls of the same
// container and may be nil.
func NewElement(name string, values []string, form func(name string) ([]string, bool)) Element {
	return Element{Name: name, Values: values, form: form}
}

// Value returns the first value of the element, or an empty string.
func (e Element) Value() string {
	if len(e.Values) == 0 {
		return ""
	}
	return e.Values[0]
}

// IsEmpty reports whether every value is blank after trimming whitespace.
func (e Element) IsEmpty() bool {
	for _, v := range e.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Sibling returns the values of another control in the same container.
func (e Element) Sibling(name string) ([]string, bool) {
	if e.form == nil {
		return nil, false
	}
	return e.form(name)
}

// SiblingValue returns the first value of another control, or an empty string.
func (e Element) SiblingValue(name string) string {
	values, ok := e.Sibling(name)
	if !ok || len(values) == 0 {
		return ""
	}
	return values[0]
}

// filled returns the non-blank values of the element.
func (e Element) filled() []string {
	out := make([]string, 0, len(e.Values))
	for _, v := range e.Values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
