package checker

import "github.com/smallwat3r/passcheck/internal/domain"

// Counter counts failed attempts in [0, max].
type Counter struct {
	attempts int
	max      int
}

// NewCounter returns a zeroed counter. A max below 1 uses
// domain.MaxAttempts.
func NewCounter(max int) *Counter {
	if max < 1 {
		max = domain.MaxAttempts
	}
	return &Counter{max: max}
}

// Fail records a mismatch. It never moves the count past max.
func (c *Counter) Fail() {
	if c.attempts < c.max {
		c.attempts++
	}
}

func (c *Counter) Attempts() int   { return c.attempts }
func (c *Counter) Max() int        { return c.max }
func (c *Counter) Remaining() int  { return c.max - c.attempts }
func (c *Counter) Exhausted() bool { return c.attempts >= c.max }
