package checker

import (
	"fmt"

	"github.com/smallwat3r/passcheck/internal/domain"
)

// XORMatch reports whether input, with every byte XOR domain.XORKey, equals
// domain.EncodedSecret. This is an obfuscated comparison, not encryption.
func XORMatch(input string) bool {
	if len(input) != len(domain.EncodedSecret) {
		return false
	}
	for i := 0; i < len(input); i++ {
		if input[i]^domain.XORKey != domain.EncodedSecret[i] {
			return false
		}
	}
	return true
}

// Decode returns the plain secret behind domain.EncodedSecret.
func Decode() string {
	b := make([]byte, len(domain.EncodedSecret))
	for i, e := range domain.EncodedSecret {
		b[i] = e ^ domain.XORKey
	}
	return string(b)
}

// SecureCheck runs the retry loop against the XOR-encoded secret.
func SecureCheck(c Console) bool {
	c.Println("=== Secure Password Check ===")
	c.Printf("Hint: the default password is '%s'\n", Decode())

	return run(c, MatchFunc(XORMatch), domain.MaxAttempts, script{
		prompt:  func(int, int) string { return "Enter password: " },
		success: "✓ Access granted!",
		retry: func(remaining int) string {
			if remaining == 0 {
				return ""
			}
			return fmt.Sprintf("✗ Access denied! %d attempts left", remaining)
		},
		failure: "✗ Account locked!",
	})
}
