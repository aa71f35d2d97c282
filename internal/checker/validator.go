package checker

import (
	"fmt"

	"github.com/smallwat3r/passcheck/internal/domain"
)

// Validator checks input against a fixed secret with an attempt budget.
type Validator struct {
	secret      string
	maxAttempts int
}

// NewValidator returns a Validator; a budget below 1 uses domain.MaxAttempts.
func NewValidator(secret string, maxAttempts int) *Validator {
	if maxAttempts < 1 {
		maxAttempts = domain.MaxAttempts
	}
	return &Validator{secret: secret, maxAttempts: maxAttempts}
}

// Validate reports whether input equals the secret byte for byte.
func (v *Validator) Validate(input string) bool {
	return input == v.secret
}

// Match implements Matcher.
func (v *Validator) Match(input string) bool { return v.Validate(input) }

// MaxAttempts returns the attempt budget.
func (v *Validator) MaxAttempts() int { return v.maxAttempts }

// Run prompts until the secret is entered or the budget is spent.
func (v *Validator) Run(c Console) bool {
	c.Println("=== Password Verification ===")
	c.Printf("You have %d attempts\n\n", v.maxAttempts)

	return run(c, v, v.maxAttempts, script{
		prompt: func(attempt, max int) string {
			return fmt.Sprintf("Enter password (attempt %d/%d): ", attempt, max)
		},
		success: "\n✓ Correct password! Verification succeeded!",
		retry: func(remaining int) string {
			if remaining == 0 {
				return ""
			}
			return fmt.Sprintf("✗ Wrong password! %d attempts left\n", remaining)
		},
		failure: "\n✗ Too many wrong passwords, verification failed!",
	})
}
