package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func init() {
	register("required", func(Params) (Predicate, error) { return Required, nil })
	register("min_length", lengthFactory("min", func(n, limit int) bool { return n >= limit }))
	register("max_length", lengthFactory("max", func(n, limit int) bool { return n <= limit }))
	register("length", lengthFactory("length", func(n, limit int) bool { return n == limit }))
}

// Required passes when at least one value is non-blank after trimming whitespace.
func Required(el Element) bool {
	return !el.IsEmpty()
}

// lengthFactory compares the rune count of every value against an integer parameter.
func lengthFactory(key string, cmp func(n, limit int) bool) Factory {
	return func(p Params) (Predicate, error) {
		limit, err := p.Int(key)
		if err != nil {
			return nil, err
		}
		if limit < 0 {
			return nil, fmt.Errorf("%w: %q must not be negative", ErrInvalidParams, key)
		}
		return func(el Element) bool {
			return every(el, func(v string) bool {
				return cmp(utf8.RuneCountInString(strings.TrimSpace(v)), limit)
			})
		}, nil
	}
}
