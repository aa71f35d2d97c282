package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidVariant  = errors.New("invalid variant")
	ErrSessionNotFound = errors.New("session not found")
)

// Variant selects one of the password check routines. The numeric values
// are the menu choices.
type Variant int

const (
	VariantExit Variant = iota
	VariantValidator
	VariantSimple
	VariantSecure
)

func (v Variant) String() string {
	switch v {
	case VariantExit:
		return "exit"
	case VariantValidator:
		return "validator"
	case VariantSimple:
		return "simple"
	case VariantSecure:
		return "secure"
	default:
		return "Variant(" + strconv.Itoa(int(v)) + ")"
	}
}

// Valid reports whether v is one of the known menu choices.
func (v Variant) Valid() bool {
	return v >= VariantExit && v <= VariantSecure
}

// ParseVariant parses a menu choice such as "2".
func ParseVariant(s string) (Variant, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVariant, s)
	}
	v := Variant(n)
	if !v.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidVariant, n)
	}
	return v, nil
}

// Session is a password check that spans several HTTP requests.
type Session struct {
	ID        string
	Variant   Variant
	Attempts  int
	ExpiresAt time.Time
}

// Remaining returns the attempts left before lockout.
func (s Session) Remaining() int {
	if s.Attempts >= MaxAttempts {
		return 0
	}
	return MaxAttempts - s.Attempts
}

type CreateSessionReq struct {
	Variant Variant `json:"variant"`
}

type CreateSessionRes struct {
	ID          string    `json:"id"`
	Variant     string    `json:"variant"`
	MaxAttempts int       `json:"max_attempts"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AttemptReq struct {
	Password string `json:"password"`
}

type AttemptRes struct {
	OK        bool `json:"ok"`
	Remaining int  `json:"remaining"`
	Locked    bool `json:"locked,omitempty"`
}
