package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

var (
	// international format with optional country code
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

	alphanumericRegex  = regexp.MustCompile(`^[\p{L}0-9]+$`)
	alphaRegex         = regexp.MustCompile(`^\p{L}+$`)
	numericStringRegex = regexp.MustCompile(`^[0-9]+$`)
)

func init() {
	register("email", static(IsEmail))
	register("url", static(IsURL))
	register("phone", static(func(v string) bool {
		cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(v)
		return phoneRegex.MatchString(cleaned)
	}))
	register("alpha", static(alphaRegex.MatchString))
	register("alphanumeric", static(alphanumericRegex.MatchString))
	register("numeric", static(numericStringRegex.MatchString))
	register("pattern", func(p Params) (Predicate, error) {
		src, err := p.String("pattern")
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern: %v", ErrInvalidParams, err)
		}
		return func(el Element) bool { return every(el, re.MatchString) }, nil
	})
}

// IsEmail reports whether v is a plain address (no display name) with a dotted domain.
func IsEmail(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// IsURL reports whether v is an absolute http or https URL with a host.
func IsURL(v string) bool {
	u, err := url.Parse(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
