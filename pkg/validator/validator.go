package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CountryPrefix is prepended to mobile numbers that lack it.
const CountryPrefix = "+91"

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	mobilePattern = regexp.MustCompile(`^\+91[6-9]\d{9}$`)
	leadingNoise  = regexp.MustCompile(`^0+|^\+`)
	separators    = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// NormalizeMobile strips separators and prefixes CountryPrefix. Leading
// zeros, or a single leading '+', are dropped before prefixing; a number that
// already carries the prefix is returned unchanged.
func NormalizeMobile(raw string) string {
	n := separators.Replace(strings.TrimSpace(raw))
	if n == "" || strings.HasPrefix(n, CountryPrefix) {
		return n
	}
	return CountryPrefix + leadingNoise.ReplaceAllString(n, "")
}

// IsValidMobile expects an already normalized number.
func IsValidMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Mobile is a validator.Func accepting anything that normalizes to a valid
// mobile number.
func Mobile(fl validator.FieldLevel) bool {
	return IsValidMobile(NormalizeMobile(fl.Field().String()))
}

// OneOf builds a validator.Func for a closed string set. Empty values pass so
// the rule composes with omitempty/required.
func OneOf(values ...string) validator.Func {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, ok := allowed[s]
		return ok
	}
}
