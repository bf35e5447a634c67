// Package validation holds the format checks the form layer applies before
// records reach storage. The fleet engine stays defensive regardless; these
// checks exist so bad input is rejected with a field error instead.
package validation

import (
	"regexp"
	"time"
)

const dateLayout = "2006-01-02"

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// phoneRegex accepts common US formats: 555-123-4567, (555) 123-4567,
	// +1 555 123 4567, 5551234567.
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\-\s().]{6,19}$`)

	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	pwsIDRegex = regexp.MustCompile(`^[A-Z]{2}[0-9]{7}$`)
)

// IsValidDate checks for a YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func IsValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// IsValidPWSID checks a Public Water System ID: two-letter state code
// followed by seven digits.
func IsValidPWSID(id string) bool {
	return pwsIDRegex.MatchString(id)
}
