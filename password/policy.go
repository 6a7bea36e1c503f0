package password

import (
	"errors"
	"fmt"
)

// DefaultMinLength is the minimum password length in bytes.
const DefaultMinLength = 8

var (
	ErrTooShort  = errors.New("password too short")
	ErrMismatch  = errors.New("passwords do not match")
	ErrUnchanged = errors.New("new password equals the current one")
)

// Policy describes what a new password must satisfy.
type Policy struct {
	MinLength int
	// RejectUnchanged refuses a change whose new password equals the old one.
	RejectUnchanged bool
}

// DefaultPolicy returns the policy of the change-password form.
func DefaultPolicy() Policy {
	return Policy{MinLength: DefaultMinLength}
}

// Validate checks a single password.
func (p Policy) Validate(password string) error {
	minLen := p.MinLength
	if minLen <= 0 {
		minLen = DefaultMinLength
	}
	if len(password) < minLen {
		return fmt.Errorf("%w: must be at least %d characters long", ErrTooShort, minLen)
	}
	return nil
}

// ValidateChange checks a change request. The confirmation is compared
// first so a typo is reported before the length.
func (p Policy) ValidateChange(oldPassword, newPassword, confirm string) error {
	if newPassword != confirm {
		return ErrMismatch
	}
	if err := p.Validate(newPassword); err != nil {
		return err
	}
	if p.RejectUnchanged && oldPassword == newPassword {
		return ErrUnchanged
	}
	return nil
}
