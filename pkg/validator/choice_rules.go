package validator

import (
	"fmt"
	"slices"
)

func init() {
	register("one_of", choiceFactory(true))
	register("not_one_of", choiceFactory(false))
	register("min_items", countFactory("min", func(n, limit int) bool { return n >= limit }))
	register("max_items", countFactory("max", func(n, limit int) bool { return n <= limit }))
}

func choiceFactory(allowed bool) Factory {
	return func(p Params) (Predicate, error) {
		values, err := p.Strings("values")
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: values must not be empty", ErrInvalidParams)
		}
		return func(el Element) bool {
			return every(el, func(v string) bool {
				return slices.Contains(values, v) == allowed
			})
		}, nil
	}
}

// countFactory compares the number of non-blank values of a multi-valued control.
func countFactory(key string, cmp func(n, limit int) bool) Factory {
	return func(p Params) (Predicate, error) {
		limit, err := p.Int(key)
		if err != nil {
			return nil, err
		}
		return func(el Element) bool {
			return cmp(len(el.filled()), limit)
		}, nil
	}
}
