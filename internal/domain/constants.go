package domain

import "time"

const (
	// MaxAttempts is the number of incorrect passwords accepted before a
	// check is locked out.
	MaxAttempts = 3

	// MaxRequestBodySize bounds the JSON bodies accepted by the service.
	MaxRequestBodySize = 1024

	// DefaultSessionTTL is how long an unfinished check session lives.
	DefaultSessionTTL = 10 * time.Minute
)

// Secrets checked by each variant. They are toy values and are printed in
// the menu.
const (
	ValidatorSecret = "admin123"
	SimpleSecret    = "123456"
	SecureSecret    = "password"
)

// XORKey is applied to every input byte before comparing against
// EncodedSecret.
const XORKey byte = 0x03

// EncodedSecret is SecureSecret with every byte XOR XORKey.
var EncodedSecret = [...]byte{0x50, 0x52, 0x53, 0x53, 0x56, 0x4F, 0x51, 0x55}
