package checker

import (
	"fmt"

	"github.com/smallwat3r/passcheck/internal/domain"
)

// SimpleCheck compares input against domain.SimpleSecret. Unlike the other
// routines it reports the remaining count after every mismatch, including
// the last one.
func SimpleCheck(c Console) bool {
	c.Println("=== Simple Password Check ===")

	m := MatchFunc(func(input string) bool { return input == domain.SimpleSecret })
	return run(c, m, domain.MaxAttempts, script{
		prompt:  func(int, int) string { return "Enter password: " },
		success: "Password correct!",
		retry: func(remaining int) string {
			return fmt.Sprintf("Wrong password! %d attempts left", remaining)
		},
		failure: "Verification failed!",
	})
}
