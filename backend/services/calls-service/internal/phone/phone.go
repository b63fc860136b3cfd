// Package phone validates subscriber phone numbers.
package phone

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidNumber marks numbers outside the AAXXXXXXXXX / AAXXXXXXXX format.
var ErrInvalidNumber = errors.New("phone: invalid number")

// Two-digit area code followed by an 8 or 9 digit subscriber number.
var numberPattern = regexp.MustCompile(`^[0-9]{2}(?:[0-9]{8}|[0-9]{9})$`)

// Validate returns nil when number is a valid subscriber number.
func Validate(number string) error {
	if !numberPattern.MatchString(number) {
		return fmt.Errorf("%w: %s is not a valid phone number, use AAXXXXXXXXX or AAXXXXXXXX, eg: 41998765432",
			ErrInvalidNumber, number)
	}
	return nil
}
