package validator

import (
	"fmt"
	"strconv"
	"strings"
)

// Params holds the declarative arguments of a rule kind.
// Values come from YAML, JSON or BSON documents, so numbers may arrive as any
// numeric type or as strings.
type Params map[string]any

// String returns the parameter as a string.
func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidParams, key)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// StringOr returns the parameter as a string or def when the key is absent.
func (p Params) StringOr(key, def string) string {
	if _, ok := p[key]; !ok {
		return def
	}
	s, err := p.String(key)
	if err != nil {
		return def
	}
	return s
}

// Float returns the parameter as a float64.
func (p Params) Float(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %q", ErrInvalidParams, key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidParams, key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %q has type %T", ErrInvalidParams, key, v)
	}
}

// Int returns the parameter as an int. Fractional values are rejected.
func (p Params) Int(key string) (int, error) {
	f, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %q must be an integer", ErrInvalidParams, key)
	}
	return int(f), nil
}

// Strings returns the parameter as a string slice. A single string is
// accepted as a one-element list.
func (p Params) Strings(key string) ([]string, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalidParams, key)
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case string:
		return []string{list}, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q has type %T", ErrInvalidParams, key, v)
	}
}

// Args flattens the parameters into key/value pairs for message templates.
func (p Params) Args() []string {
	args := make([]string, 0, len(p)*2)
	for k, v := range p {
		switch list := v.(type) {
		case []string:
			args = append(args, k, strings.Join(list, ", "))
		case []any:
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			args = append(args, k, strings.Join(parts, ", "))
		default:
			args = append(args, k, fmt.Sprint(v))
		}
	}
	return args
}

// Clone returns a shallow copy of the parameters.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
