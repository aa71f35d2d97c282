// Package menu prints the choice of password checks and dispatches to the
// selected one.
package menu

import (
	"github.com/smallwat3r/passcheck/internal/checker"
	"github.com/smallwat3r/passcheck/internal/domain"
)

type Console interface {
	checker.Console
	ReadLine(prompt string) (string, error)
}

// Outcome is what a menu run ended with.
type Outcome int

const (
	OutcomeExit Outcome = iota
	OutcomeInvalid
	OutcomeVerified
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExit:
		return "exit"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeVerified:
		return "verified"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

const rule = "==========================================="

func printMenu(c Console) {
	c.Println(rule)
	c.Println("      Password Check Demo")
	c.Println(rule)
	c.Println("\nChoose a verification method:")
	c.Printf("1. Validator version (password: %s)\n", domain.ValidatorSecret)
	c.Printf("2. Simple function version (password: %s)\n", domain.SimpleSecret)
	c.Printf("3. Encoded secret version (password: %s)\n", domain.SecureSecret)
	c.Println("0. Exit")
}

// Run shows the menu, reads one choice and runs the matching check.
func Run(c Console) Outcome {
	printMenu(c)

	choice := domain.Variant(-1)
	if line, err := c.ReadLine("\nEnter your choice (0-3): "); err == nil {
		if v, err := domain.ParseVariant(line); err == nil {
			choice = v
		}
	}

	c.Printf("\n%s\n\n", rule)

	var ok bool
	switch choice {
	case domain.VariantValidator:
		ok = checker.NewValidator(domain.ValidatorSecret, domain.MaxAttempts).Run(c)
	case domain.VariantSimple:
		ok = checker.SimpleCheck(c)
	case domain.VariantSecure:
		ok = checker.SecureCheck(c)
	case domain.VariantExit:
		c.Println("Exiting. Goodbye!")
		return OutcomeExit
	default:
		c.Println("Invalid choice!")
		return OutcomeInvalid
	}

	if ok {
		return OutcomeVerified
	}
	return OutcomeRejected
}
