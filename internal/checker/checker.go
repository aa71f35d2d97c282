// Package checker implements the password check routines: a configured
// Validator, a plain function check, and a check against an XOR-encoded
// secret. Every routine reads at most maxAttempts lines and stops on the
// first match.
package checker

import (
	"github.com/smallwat3r/passcheck/internal/domain"
)

// Console is the prompt I/O a check runs against.
type Console interface {
	ReadSecret(prompt string) (string, error)
	Printf(format string, args ...any)
	Println(args ...any)
}

// Matcher reports whether an input is the expected secret.
type Matcher interface {
	Match(input string) bool
}

// MatchFunc adapts a plain function to Matcher.
type MatchFunc func(input string) bool

func (f MatchFunc) Match(input string) bool { return f(input) }

// ForVariant returns the comparison used by variant v.
func ForVariant(v domain.Variant) (Matcher, bool) {
	switch v {
	case domain.VariantValidator:
		return NewValidator(domain.ValidatorSecret, domain.MaxAttempts), true
	case domain.VariantSimple:
		return MatchFunc(func(input string) bool { return input == domain.SimpleSecret }), true
	case domain.VariantSecure:
		return MatchFunc(XORMatch), true
	default:
		return nil, false
	}
}

// script holds the text a retry loop prints. An empty retry message is
// not printed.
type script struct {
	prompt  func(attempt, max int) string
	success string
	retry   func(remaining int) string
	failure string
}

// run drives the retry loop shared by all variants.
func run(c Console, m Matcher, maxAttempts int, s script) bool {
	counter := NewCounter(maxAttempts)
	for !counter.Exhausted() {
		input, err := c.ReadSecret(s.prompt(counter.Attempts()+1, counter.Max()))
		if err != nil {
			// end of input reads as an empty line
			input = ""
		}
		if m.Match(input) {
			c.Println(s.success)
			return true
		}
		counter.Fail()
		if msg := s.retry(counter.Remaining()); msg != "" {
			c.Println(msg)
		}
	}
	c.Println(s.failure)
	return false
}
