package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"keyfob/internal/domain"
)

// emailRe accepts the practical addr-spec subset used for key identities:
// printable local part, dotted domain, alphabetic TLD of two or more letters.
var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ErrEmptyName rejects blank display names.
var ErrEmptyName = errors.New("name must not be empty")

// Email checks that s is usable as the address of a key identity.
func Email(s string) error {
	if !emailRe.MatchString(s) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidEmail, s)
	}
	return nil
}

// Name checks that s is usable as a display name.
func Name(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyName
	}
	return nil
}
