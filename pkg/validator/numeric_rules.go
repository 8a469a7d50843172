package validator

import (
	"fmt"
	"strconv"
	"strings"
)

func init() {
	register("integer", static(func(v string) bool {
		_, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return err == nil
	}))
	register("min", boundFactory("min", func(n, limit float64) bool { return n >= limit }))
	register("max", boundFactory("max", func(n, limit float64) bool { return n <= limit }))
	register("between", func(p Params) (Predicate, error) {
		lo, err := p.Float("min")
		if err != nil {
			return nil, err
		}
		hi, err := p.Float("max")
		if err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, fmt.Errorf("%w: min %v is greater than max %v", ErrInvalidParams, lo, hi)
		}
		return func(el Element) bool {
			return every(el, func(v string) bool {
				n, ok := parseNumber(v)
				return ok && n >= lo && n <= hi
			})
		}, nil
	})
}

func boundFactory(key string, cmp func(n, limit float64) bool) Factory {
	return func(p Params) (Predicate, error) {
		limit, err := p.Float(key)
		if err != nil {
			return nil, err
		}
		return func(el Element) bool {
			return every(el, func(v string) bool {
				n, ok := parseNumber(v)
				return ok && cmp(n, limit)
			})
		}, nil
	}
}

func parseNumber(v string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return n, err == nil
}
