package validator

import (
	"fmt"
	"strings"
	"time"
)

const defaultDateLayout = time.DateOnly

func init() {
	register("date", func(p Params) (Predicate, error) {
		layout := p.StringOr("layout", defaultDateLayout)
		return func(el Element) bool {
			return every(el, func(v string) bool {
				_, err := time.Parse(layout, strings.TrimSpace(v))
				return err == nil
			})
		}, nil
	})
	register("date_before", dateBoundFactory(func(v, bound time.Time) bool { return v.Before(bound) }))
	register("date_after", dateBoundFactory(func(v, bound time.Time) bool { return v.After(bound) }))
}

// dateBoundFactory compares dates against params["date"], which may be the
// literal "today".
func dateBoundFactory(cmp func(v, bound time.Time) bool) Factory {
	return func(p Params) (Predicate, error) {
		layout := p.StringOr("layout", defaultDateLayout)
		raw, err := p.String("date")
		if err != nil {
			return nil, err
		}

		var fixed time.Time
		today := raw == "today"
		if !today {
			fixed, err = time.Parse(layout, raw)
			if err != nil {
				return nil, fmt.Errorf("%w: date %q does not match layout %q", ErrInvalidParams, raw, layout)
			}
		}

		return func(el Element) bool {
			bound := fixed
			if today {
				bound = time.Now().UTC().Truncate(24 * time.Hour)
			}
			return every(el, func(v string) bool {
				t, err := time.Parse(layout, strings.TrimSpace(v))
				return err == nil && cmp(t, bound)
			})
		}, nil
	}
}
